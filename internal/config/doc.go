// Package config provides configuration management for backdrop-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Environment variable overrides
//   - Default configuration values
//   - Resolving the TMDB API key
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Backdrops are saved to the current directory
//	// Original size images, 15 second API timeout
//
// # Loading
//
//	settings, err := config.LoadWithEnv(config.DefaultPath())
//
// A missing settings file yields the defaults. Environment variables
// (TMDB_API_KEY, BACKDROP_DOWNLOADS_PATH, BACKDROP_IMAGE_SIZE, ...) override
// values from the file.
//
// # Credential
//
//	key, source, err := config.ResolveCredential(ctx, settings, ask)
//
// The key comes from the settings, then the credential file, then the
// prompt. An empty key is always an error.
package config
