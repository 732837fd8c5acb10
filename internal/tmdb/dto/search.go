package dto

import (
	"github.com/handiism/backdrop-downloader/internal/model"
)

// JSONSearchResponse is the body of GET /search/multi.
type JSONSearchResponse struct {
	Page         int                `json:"page"`
	TotalResults int                `json:"total_results"`
	Results      []JSONSearchResult `json:"results"`
}

// JSONSearchResult is one entry of a multi search. Movies carry title and
// release_date, TV shows carry name and first_air_date, people carry neither.
type JSONSearchResult struct {
	ID           int    `json:"id"`
	MediaType    string `json:"media_type"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

// ToCandidate converts the result to a model.Candidate. The second value is
// false for kinds other than movie and tv.
func (r *JSONSearchResult) ToCandidate() (model.Candidate, bool) {
	kind := model.ParseMediaKind(r.MediaType)
	if !kind.Valid() {
		return model.Candidate{}, false
	}

	title, alt, date := r.Title, r.Name, r.ReleaseDate
	if kind == model.KindSeries {
		title, alt, date = r.Name, r.Title, r.FirstAirDate
	}
	if title == "" {
		title = alt
	}
	if title == "" {
		title = "Unknown Title"
	}

	return model.Candidate{
		ID:          r.ID,
		Kind:        kind,
		Title:       title,
		ReleaseDate: date,
	}, true
}
