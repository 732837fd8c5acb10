// Package tmdb is a small client for The Movie Database API covering the
// calls needed to find a title and fetch its backdrops.
//
// # Operations
//
//   - ValidateKey: one request to /configuration to check the API key
//   - Search: /search/multi, movies and TV shows only, at most 5 results
//   - Backdrops: /{movie|tv}/{id}/images, optionally filtered by language
//   - ImageURL: builds the image host URL for a backdrop file path
//
// # Errors
//
// Search and Backdrops return transport, status and decoding errors as-is;
// callers treat them as recoverable. ValidateKey wraps every failure in
// ErrInvalidCredential.
//
// JSON payloads are decoded into the types of package dto and converted to
// package model values before leaving this package.
package tmdb
