// Package model defines the core data structures used throughout
// the backdrop-downloader application.
//
// # Candidate
//
// Candidate is one movie or TV show returned by a search:
//
//	c := model.Candidate{ID: 1396, Kind: model.KindSeries, Title: "Breaking Bad"}
//	fmt.Println(c.Label()) // "Breaking Bad [TV Show] (Release Date: N/A)"
//
// # Backdrop
//
// Backdrop references one wide artwork image of a candidate. Backdrops are
// filtered by Language with FilterBackdrops:
//
//	english := model.FilterBackdrops(all, model.LanguageEnglish)
//
// # DownloadRequest
//
// DownloadRequest pairs a resolved local path with the remote image URL.
// It is built right before a download and discarded afterwards.
package model
