package tmdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/backdrop-downloader/internal/http"
	"github.com/handiism/backdrop-downloader/internal/model"
	"github.com/handiism/backdrop-downloader/internal/tmdb/dto"
)

var (
	// ErrInvalidCredential is returned by ValidateKey when the provider
	// rejects the API key or cannot be reached.
	ErrInvalidCredential = errors.New("invalid TMDB API key")

	// ErrEmptyQuery is returned by Search for a blank query. No request is made.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrUnsupportedKind is returned by Backdrops for candidates that are
	// neither movies nor TV shows.
	ErrUnsupportedKind = errors.New("unsupported media kind")
)

// Config holds the provider endpoints.
type Config struct {
	// APIBaseURL is the API root, e.g. "https://api.themoviedb.org/3".
	APIBaseURL string

	// ImageBaseURL is the image host root, e.g. "https://image.tmdb.org/t/p/".
	ImageBaseURL string

	// ImageSize is the size segment of image URLs, e.g. "original".
	ImageSize string

	// RequestTimeout bounds each API call. Zero means no extra deadline.
	RequestTimeout time.Duration
}

// Client talks to the TMDB API.
//
// Example usage:
//
//	client := tmdb.NewClient(httpClient, apiKey, cfg, logger)
//	if err := client.ValidateKey(ctx); err != nil {
//	    return err
//	}
//	candidates, err := client.Search(ctx, "Breaking Bad")
//	backdrops, err := client.Backdrops(ctx, candidates[0], model.LanguageEnglish)
//	url := client.ImageURL(backdrops[0].FilePath)
type Client struct {
	http   *http.Client
	apiKey string
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a Client using apiKey for every request.
func NewClient(httpClient *http.Client, apiKey string, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		http:   httpClient,
		apiKey: apiKey,
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	return strings.TrimRight(c.cfg.APIBaseURL, "/") + path + "?" + params.Encode()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

// ValidateKey performs one request to the configuration endpoint. Any
// failure, whether a rejected key, another status or a network error, is
// reported as ErrInvalidCredential wrapping the cause.
func (c *Client) ValidateKey(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.http.Check(ctx, c.endpoint("/configuration", nil)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	c.logger.DebugContext(ctx, "api key accepted")
	return nil
}

// Search runs a multi search and returns up to model.MaxCandidates movies
// and TV shows in provider order. People and other kinds are dropped before
// the list is cut.
func (c *Client) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var resp dto.JSONSearchResponse
	if err := c.http.GetJSON(ctx, c.endpoint("/search/multi", params), &resp); err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, model.MaxCandidates)
	for i := range resp.Results {
		candidate, ok := resp.Results[i].ToCandidate()
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
		if len(candidates) == model.MaxCandidates {
			break
		}
	}

	c.logger.DebugContext(ctx, "search done",
		"results", len(resp.Results),
		"candidates", len(candidates))
	return candidates, nil
}

// Backdrops lists the backdrops of candidate filtered by lang. See
// model.FilterBackdrops for the matching rule.
func (c *Client) Backdrops(ctx context.Context, candidate model.Candidate, lang model.Language) ([]model.Backdrop, error) {
	if !candidate.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, candidate.Kind)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	path := "/" + string(candidate.Kind) + "/" + strconv.Itoa(candidate.ID) + "/images"

	var resp dto.JSONImagesResponse
	if err := c.http.GetJSON(ctx, c.endpoint(path, nil), &resp); err != nil {
		return nil, err
	}

	all := make([]model.Backdrop, len(resp.Backdrops))
	for i := range resp.Backdrops {
		all[i] = resp.Backdrops[i].ToBackdrop()
	}
	filtered := model.FilterBackdrops(all, lang)

	c.logger.DebugContext(ctx, "backdrops listed",
		"id", candidate.ID,
		"kind", string(candidate.Kind),
		"language", string(lang),
		"total", len(all),
		"matching", len(filtered))
	return filtered, nil
}

// ImageURL returns the fully-qualified URL of an image file path.
func (c *Client) ImageURL(filePath string) string {
	base := strings.TrimRight(c.cfg.ImageBaseURL, "/")
	return base + "/" + c.cfg.ImageSize + "/" + strings.TrimLeft(filePath, "/")
}
