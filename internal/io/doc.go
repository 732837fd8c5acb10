// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Default backdrop file names and the .jpg extension rule
//   - Directory creation
//   - Image dimension probing and resizing
//
// # Filename Sanitization
//
//	name := ioutils.ResolveFileName(userInput, ioutils.DefaultFileName("Breaking Bad", 2))
//	// "" -> "Breaking_Bad_backdrop_2.jpg"
//	// "my: pic" -> "my pic.jpg"
//
// # Image Processing
//
// The ImageService handles downloaded backdrops:
//
//	svc := ioutils.NewImageService()
//
//	// Read dimensions without decoding pixels
//	w, h, _ := svc.Dimensions(path)
//
//	// Downscale to fit within 1280 pixels of width
//	err := svc.ResizeFile(ctx, path, 1280)
package ioutils
