package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/handiism/backdrop-downloader/internal/http"
	ioutils "github.com/handiism/backdrop-downloader/internal/io"
	"github.com/handiism/backdrop-downloader/internal/model"
)

// ErrStalled is returned when a download receives no data for longer than
// Options.IdleTimeout.
var ErrStalled = errors.New("download stalled")

// Progress is a download progress update.
type Progress struct {
	Written int64
	// Total is -1 when the server did not declare a content length.
	Total int64
}

// Fraction returns Written/Total in [0, 1], or -1 when Total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return -1
	}
	f := float64(p.Written) / float64(p.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// Result describes a finished download.
type Result struct {
	Path    string
	Bytes   int64
	Width   int
	Height  int
	Resized bool

	// ResizeErr is set when the image was saved but could not be resized.
	// The file at Path holds the original download in that case.
	ResizeErr error
}

// Options configures a Retriever.
type Options struct {
	// ResizeMaxWidth downscales saved images wider than this. Zero disables it.
	ResizeMaxWidth int

	// IdleTimeout aborts a transfer that receives no bytes for this long,
	// including the wait for the first byte. Zero disables it.
	IdleTimeout time.Duration
}

// Retriever downloads backdrop images to disk.
type Retriever struct {
	httpClient   *http.Client
	imageService *ioutils.ImageService
	opts         Options
	logger       *slog.Logger
}

// NewRetriever creates a new Retriever.
func NewRetriever(httpClient *http.Client, opts Options, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Retriever{
		httpClient:   httpClient,
		imageService: ioutils.NewImageService(),
		opts:         opts,
		logger:       logger,
	}
}

// Retrieve streams req.URL into req.Path, calling onProgress after every
// chunk. The parent directory is created when missing.
//
// A transfer idle for longer than Options.IdleTimeout fails with ErrStalled.
// A failed transfer leaves whatever was written in place. There is no retry.
func (r *Retriever) Retrieve(ctx context.Context, req model.DownloadRequest, onProgress func(Progress)) (*Result, error) {
	if err := ioutils.EnsureDir(filepath.Dir(req.Path)); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	written, err := r.transfer(ctx, req, onProgress)
	if err != nil {
		r.logger.WarnContext(ctx, "download failed", "path", req.Path, "written", written, "error", err)
		return nil, err
	}

	result := &Result{Path: req.Path, Bytes: written}

	if r.opts.ResizeMaxWidth > 0 {
		resized, err := r.imageService.ResizeFile(ctx, req.Path, r.opts.ResizeMaxWidth)
		if err != nil {
			r.logger.WarnContext(ctx, "resize failed", "path", req.Path, "error", err)
			result.ResizeErr = err
		}
		result.Resized = resized
	}

	// Dimensions are informational; a server returning non-image bytes is
	// still a completed download.
	if w, h, err := r.imageService.Dimensions(req.Path); err == nil {
		result.Width, result.Height = w, h
	} else {
		r.logger.DebugContext(ctx, "could not read image dimensions", "path", req.Path, "error", err)
	}

	r.logger.InfoContext(ctx, "backdrop saved",
		"path", result.Path,
		"bytes", result.Bytes,
		"width", result.Width,
		"height", result.Height,
		"resized", result.Resized)
	return result, nil
}

// transfer runs the download on a child context that is cancelled with
// ErrStalled when no chunk arrives within the idle timeout.
func (r *Retriever) transfer(ctx context.Context, req model.DownloadRequest, onProgress func(Progress)) (int64, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	idle := r.opts.IdleTimeout
	var watchdog *time.Timer
	if idle > 0 {
		watchdog = time.AfterFunc(idle, func() { cancel(ErrStalled) })
	}

	written, err := r.httpClient.DownloadFile(ctx, req.URL, req.Path, func(written, total int64) {
		if watchdog != nil {
			watchdog.Reset(idle)
		}
		if onProgress != nil {
			onProgress(Progress{Written: written, Total: total})
		}
	})
	if watchdog != nil {
		watchdog.Stop()
	}

	if err != nil && errors.Is(context.Cause(ctx), ErrStalled) {
		return written, fmt.Errorf("%w: no data received for %s", ErrStalled, idle)
	}
	return written, err
}
