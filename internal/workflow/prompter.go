package workflow

import (
	"context"
	"errors"

	"github.com/handiism/backdrop-downloader/internal/download"
)

var (
	// ErrInputClosed is returned by Prompter.Ask when no more input will arrive.
	ErrInputClosed = errors.New("input closed")

	// ErrInterrupted is returned by Session.Run when its context is cancelled.
	ErrInterrupted = errors.New("interrupted")
)

// Level selects how a message is rendered.
type Level int

const (
	LevelPlain Level = iota
	LevelHeading
	LevelInfo
	LevelWarning
	LevelError
	LevelSuccess
)

// Prompter is the line-based terminal the session talks to.
type Prompter interface {
	// Show prints one message.
	Show(level Level, text string)

	// Ask prints question and blocks until a line is entered, the input
	// ends (ErrInputClosed) or ctx is done.
	Ask(ctx context.Context, question string) (string, error)

	// Progress reports download progress. It is called once per chunk.
	Progress(p download.Progress)
}
