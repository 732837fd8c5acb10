package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyCredential is returned when the API key resolves to an empty string.
var ErrEmptyCredential = errors.New("TMDB API key is empty")

// CredentialSource tells where a resolved credential came from.
type CredentialSource int

const (
	SourceSettings CredentialSource = iota
	SourceFile
	SourcePrompt
)

func (s CredentialSource) String() string {
	switch s {
	case SourceSettings:
		return "settings"
	case SourceFile:
		return "file"
	case SourcePrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// AskFunc asks the user a question and returns the answer line.
type AskFunc func(ctx context.Context, question string) (string, error)

// ResolveCredential returns the API key, trying in order:
//  1. Settings.APIKey (the api_key field or TMDB_API_KEY)
//  2. The credential file, when it exists
//  3. ask, when the file does not exist
//
// An existing but blank credential file is ErrEmptyCredential; the prompt is
// not offered in that case so the user fixes the file. No network call is
// made here.
func ResolveCredential(ctx context.Context, s *Settings, ask AskFunc) (string, CredentialSource, error) {
	if key := strings.TrimSpace(s.APIKey); key != "" {
		return key, SourceSettings, nil
	}

	if s.CredentialFile != "" {
		data, err := os.ReadFile(s.CredentialFile)
		switch {
		case err == nil:
			key := strings.TrimSpace(string(data))
			if key == "" {
				return "", SourceFile, fmt.Errorf("%s: %w", s.CredentialFile, ErrEmptyCredential)
			}
			return key, SourceFile, nil
		case !os.IsNotExist(err):
			return "", SourceFile, fmt.Errorf("read credential file: %w", err)
		}
	}

	answer, err := ask(ctx, "Enter your TMDB API key: ")
	if err != nil {
		return "", SourcePrompt, err
	}
	key := strings.TrimSpace(answer)
	if key == "" {
		return "", SourcePrompt, ErrEmptyCredential
	}
	return key, SourcePrompt, nil
}
