package model

import (
	"fmt"
)

// MaxCandidates is the number of search results shown to the user.
//
// The provider may return more; the list is cut after filtering, in the
// order the provider returned it.
const MaxCandidates = 5

// MediaKind identifies whether a candidate is a movie or a TV show.
//
// The string values are the provider's media_type values and are also used
// as the first path segment of the artwork endpoint.
type MediaKind string

const (
	// KindUnknown is any media_type that is neither movie nor tv (people, collections).
	KindUnknown MediaKind = ""

	// KindMovie is a feature film.
	KindMovie MediaKind = "movie"

	// KindSeries is a TV show.
	KindSeries MediaKind = "tv"
)

// ParseMediaKind maps a provider media_type to a MediaKind.
//
// Anything other than "movie" or "tv" maps to KindUnknown.
func ParseMediaKind(s string) MediaKind {
	switch MediaKind(s) {
	case KindMovie:
		return KindMovie
	case KindSeries:
		return KindSeries
	default:
		return KindUnknown
	}
}

// Valid reports whether k is one of the two kinds that have backdrops.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// DisplayName returns the human readable kind used in result lists.
func (k MediaKind) DisplayName() string {
	switch k {
	case KindSeries:
		return "TV Show"
	case KindMovie:
		return "Movie"
	default:
		return "Unknown"
	}
}

// Candidate is a movie or TV show found by a search.
type Candidate struct {
	// ID is the provider's numeric identifier for the title.
	ID int

	// Kind is KindMovie or KindSeries for every candidate returned by a search.
	Kind MediaKind

	// Title is the display title ("title" for movies, "name" for TV shows).
	Title string

	// ReleaseDate is the release or first air date as returned by the
	// provider (YYYY-MM-DD). Empty when unknown.
	ReleaseDate string
}

// DisplayReleaseDate returns the release date, or "N/A" when it is unknown.
func (c Candidate) DisplayReleaseDate() string {
	if c.ReleaseDate == "" {
		return "N/A"
	}
	return c.ReleaseDate
}

// Label formats the candidate for a numbered result list.
func (c Candidate) Label() string {
	return fmt.Sprintf("%s [%s] (Release Date: %s)", c.Title, c.Kind.DisplayName(), c.DisplayReleaseDate())
}
