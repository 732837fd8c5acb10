package model

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is an ISO 639-1 code used to filter backdrops.
//
// LanguageNone means no filter was requested.
type Language string

const (
	LanguageNone    Language = ""
	LanguageEnglish Language = "en"
	LanguageDutch   Language = "nl"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
)

// MenuLanguages is the fixed set of languages offered to the user, in menu order.
var MenuLanguages = []Language{
	LanguageNone,
	LanguageEnglish,
	LanguageDutch,
	LanguageSpanish,
	LanguageFrench,
}

// ParseLanguage validates a 2-letter code. An empty string yields LanguageNone.
func ParseLanguage(code string) (Language, error) {
	if code == "" {
		return LanguageNone, nil
	}
	if len(code) != 2 {
		return LanguageNone, fmt.Errorf("invalid language code %q: want 2 letters", code)
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return LanguageNone, fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return Language(base.String()), nil
}

// DisplayName returns the English name of the language, e.g. "Dutch".
func (l Language) DisplayName() string {
	if l == LanguageNone {
		return "No specific language"
	}
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return string(l)
}

// Backdrop is one wide artwork image of a movie or TV show.
type Backdrop struct {
	// FilePath is the provider-relative image path, e.g. "/tsRy63Mu5cu8etL1X7ZLyf7UYyF.jpg".
	FilePath string

	// Language is the image's ISO 639-1 tag. Empty for language-neutral images.
	Language Language

	Width  int
	Height int
}

// LanguageLabel returns the language tag for display, "--" for neutral images.
func (b Backdrop) LanguageLabel() string {
	if b.Language == LanguageNone {
		return "--"
	}
	return string(b.Language)
}

// Matches reports whether the backdrop passes the filter for lang.
//
// LanguageNone accepts every backdrop. Any other language requires an exact
// tag match, so neutral images are excluded once a language is chosen.
func (b Backdrop) Matches(lang Language) bool {
	return lang == LanguageNone || b.Language == lang
}

// FilterBackdrops returns the backdrops matching lang, preserving order.
//
// The result never aliases the input slice.
func FilterBackdrops(backdrops []Backdrop, lang Language) []Backdrop {
	filtered := make([]Backdrop, 0, len(backdrops))
	for _, b := range backdrops {
		if b.Matches(lang) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
