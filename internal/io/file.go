// Package ioutils provides file system utilities for the backdrop-downloader.
//
// This package contains functions for:
//   - File writing
//   - Filename sanitization
//   - Default backdrop file names
//   - Directory creation
package ioutils

import (
	"context"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// JPGExtension is appended to every downloaded backdrop file name.
const JPGExtension = ".jpg"

var (
	invalidFileNameChars = regexp.MustCompile(`[<>:"/\\|?*(){}\[\]]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// WriteFile writes data to path with mode 0644, truncating an existing
// file. Nothing is written once ctx is done.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName removes characters that are invalid in file names on
// common platforms and trims surrounding whitespace.
//
// Removed characters: < > : " / \ | ? * and the bracket characters ( ) [ ] { }.
// SanitizeFileName(SanitizeFileName(s)) == SanitizeFileName(s).
//
// Example:
//
//	SanitizeFileName("  Breaking Bad: [Pilot] ") // Returns "Breaking Bad Pilot"
//	SanitizeFileName("???")                      // Returns ""
func SanitizeFileName(name string) string {
	name = invalidFileNameChars.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// EnsureJPGExtension appends ".jpg" unless name already ends with it,
// compared case-insensitively.
//
// Example:
//
//	EnsureJPGExtension("poster")     // Returns "poster.jpg"
//	EnsureJPGExtension("poster.JPG") // Returns "poster.JPG"
func EnsureJPGExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), JPGExtension) {
		return name
	}
	return name + JPGExtension
}

// DefaultFileName generates the name used when the user leaves the file
// name blank: the sanitized title with whitespace runs replaced by
// underscores, followed by "_backdrop_" and the 1-based backdrop number.
//
// Example:
//
//	DefaultFileName("Breaking Bad", 2) // Returns "Breaking_Bad_backdrop_2"
func DefaultFileName(title string, number int) string {
	base := whitespaceRun.ReplaceAllString(SanitizeFileName(title), "_")
	if base == "" {
		base = "media"
	}
	return base + "_backdrop_" + strconv.Itoa(number)
}

// ResolveFileName turns user input into the final file name.
//
// The input is sanitized; if nothing usable remains, or only the extension
// itself (".jpg" in any case), fallback is sanitized and used instead. The
// result always ends in ".jpg".
func ResolveFileName(input, fallback string) string {
	name := SanitizeFileName(input)
	if name == "" || strings.EqualFold(name, JPGExtension) {
		name = SanitizeFileName(fallback)
	}
	return EnsureJPGExtension(name)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// An empty path means the current directory and is a no-op.
func EnsureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
