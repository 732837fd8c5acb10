package dto

import (
	"github.com/handiism/backdrop-downloader/internal/model"
)

// JSONImagesResponse is the body of GET /{movie|tv}/{id}/images.
type JSONImagesResponse struct {
	ID        int         `json:"id"`
	Backdrops []JSONImage `json:"backdrops"`
}

// JSONImage is one artwork entry. iso_639_1 is null for language-neutral images.
type JSONImage struct {
	FilePath    string  `json:"file_path"`
	Language    *string `json:"iso_639_1"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	VoteAverage float64 `json:"vote_average"`
}

// ToBackdrop converts the image to a model.Backdrop.
func (i *JSONImage) ToBackdrop() model.Backdrop {
	var lang model.Language
	if i.Language != nil {
		lang = model.Language(*i.Language)
	}
	return model.Backdrop{
		FilePath: i.FilePath,
		Language: lang,
		Width:    i.Width,
		Height:   i.Height,
	}
}
