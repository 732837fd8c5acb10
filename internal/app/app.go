// Package app wires settings, logging, the TMDB client and the interactive
// session together for the command line front-ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/handiism/backdrop-downloader/internal/config"
	"github.com/handiism/backdrop-downloader/internal/download"
	"github.com/handiism/backdrop-downloader/internal/http"
	"github.com/handiism/backdrop-downloader/internal/tmdb"
	"github.com/handiism/backdrop-downloader/internal/workflow"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitCredential = 1
)

// Run resolves and validates the API key, then runs the interactive session
// on prompter. It returns the process exit code.
//
// A missing, empty or rejected API key returns ExitCredential. Everything
// else, including an interrupt, returns ExitOK.
func Run(ctx context.Context, settings *config.Settings, prompter workflow.Prompter, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	apiKey, source, err := config.ResolveCredential(ctx, settings, prompter.Ask)
	if err != nil {
		if ctx.Err() != nil {
			prompter.Show(workflow.LevelInfo, "Interrupted. Exiting...")
			return ExitOK
		}
		prompter.Show(workflow.LevelError, credentialMessage(err))
		return ExitCredential
	}
	logger.DebugContext(ctx, "api key resolved", "source", source.String())

	httpClient := http.NewClient(logger)
	client := tmdb.NewClient(httpClient, apiKey, tmdb.Config{
		APIBaseURL:     settings.APIBaseURL,
		ImageBaseURL:   settings.ImageBaseURL,
		ImageSize:      settings.ImageSize,
		RequestTimeout: settings.RequestTimeout(),
	}, logger)

	if err := client.ValidateKey(ctx); err != nil {
		if ctx.Err() != nil {
			prompter.Show(workflow.LevelInfo, "Interrupted. Exiting...")
			return ExitOK
		}
		prompter.Show(workflow.LevelError, fmt.Sprintf("The TMDB API key was not accepted: %v", err))
		prompter.Show(workflow.LevelInfo, "Fix the key and start again.")
		return ExitCredential
	}

	retriever := download.NewRetriever(httpClient, download.Options{
		ResizeMaxWidth: settings.ResizeMaxWidth,
		IdleTimeout:    settings.DownloadIdleTimeout(),
	}, logger)

	session := workflow.NewSession(client, retriever, prompter, workflow.Options{
		DownloadsPath: settings.DownloadsPath,
		LanguageMenu:  settings.LanguageMenu,
	}, logger)

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, workflow.ErrInterrupted) {
			prompter.Show(workflow.LevelInfo, "Interrupted. Exiting...")
			return ExitOK
		}
		logger.ErrorContext(ctx, "session ended with error", "error", err)
		prompter.Show(workflow.LevelError, fmt.Sprintf("Unexpected error: %v", err))
	}
	return ExitOK
}

func credentialMessage(err error) string {
	switch {
	case errors.Is(err, config.ErrEmptyCredential):
		return fmt.Sprintf("Error: %v. Put your key in the credential file or set TMDB_API_KEY.", err)
	case errors.Is(err, workflow.ErrInputClosed):
		return "Error: no TMDB API key was entered."
	default:
		return fmt.Sprintf("Error reading TMDB API key: %v", err)
	}
}
