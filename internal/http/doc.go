// Package http provides the HTTP client used for provider API requests and
// image downloads.
//
// The Client in this package handles:
//   - User-Agent and Accept headers via a header-setting RoundTripper
//   - JSON API requests with status checking
//   - File downloads streamed in fixed-size chunks with progress tracking
//   - Dial and response-header timeouts
//
// # Basic Usage
//
//	client := http.NewClient(logger)
//
//	// Decode a JSON response
//	var out response
//	err := client.GetJSON(ctx, apiURL, &out)
//
//	// Download file with progress callback
//	n, err := client.DownloadFile(ctx, imageURL, "backdrop.jpg", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
//
// # Errors
//
// A response with a non-2xx status is reported as *StatusError so callers
// can inspect the code with errors.As.
package http
