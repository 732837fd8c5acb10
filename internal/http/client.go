package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// ChunkSize is the size of each read while streaming a download to disk.
const ChunkSize = 32 * 1024

// UserAgent is sent with every request.
const UserAgent = "BackdropDownloader"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Client wraps HTTP operations with provider-specific configuration.
//
// Client provides:
//   - User-Agent and Accept headers on every request
//   - Dial and response-header timeouts (no total deadline, so large
//     downloads are not cut off)
//   - JSON decoding of API responses
//   - File download with progress tracking
//
// Example usage:
//
//	client := NewClient(slog.Default())
//
//	// Fetch and decode JSON
//	var out searchResponse
//	err := client.GetJSON(ctx, "https://api.themoviedb.org/3/search/multi?...", &out)
//
//	// Download file with progress
//	n, err := client.DownloadFile(ctx, imageURL, "backdrop.jpg", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 10 second dial and TLS handshake timeouts
//   - 30 second response header timeout
//   - "BackdropDownloader" User-Agent header
func NewClient(logger *slog.Logger) *Client {
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
	}

	return NewClientWithTransport(base, logger)
}

// NewClientWithTransport creates a Client on top of rt. Tests use it to
// point the client at an httptest server transport.
func NewClientWithTransport(rt http.RoundTripper, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		httpClient: &http.Client{
			Transport: NewModifyHeadersRoundTripper(rt,
				WithUserAgent(UserAgent),
				WithAccept("application/json, image/*")),
		},
		logger: logger,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// It is -1 when the server did not declare a length.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed", "path", req.URL.Path, "error", err)
		return nil, err
	}
	c.logger.DebugContext(ctx, "request done",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return resp, nil
}

// Check performs a GET request and discards the body.
//
// Returns an error if the request fails or the status is not 2xx.
func (c *Client) Check(ctx context.Context, url string) error {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

// GetJSON performs a GET request and decodes the JSON body into v.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 2xx (a *StatusError)
//   - The body is not valid JSON for v
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DownloadFile downloads a file to the specified path with optional progress callback.
//
// The file is created (or truncated if it exists) only after a 2xx status is
// received, and the content is streamed to disk in ChunkSize reads. On a
// failure mid-transfer the partial file is left in place.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes);
//     totalBytes is -1 when unknown. Pass nil to disable progress tracking
//
// Returns the number of bytes written.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	writer := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}

	// Hide any WriterTo on the body so every write goes through the fixed buffer.
	buf := make([]byte, ChunkSize)
	_, err = io.CopyBuffer(writer, struct{ io.Reader }{resp.Body}, buf)
	if err != nil {
		return writer.Written, err
	}
	return writer.Written, file.Close()
}
