// Package download saves backdrop images to local disk.
//
// # Retriever
//
//	r := download.NewRetriever(httpClient, download.Options{}, logger)
//	req := model.NewDownloadRequest(dir, "Breaking_Bad_backdrop_2.jpg", url)
//	res, err := r.Retrieve(ctx, req, func(p download.Progress) {
//	    fmt.Printf("%d/%d\n", p.Written, p.Total)
//	})
//
// The body is streamed to disk in fixed-size chunks and progress is reported
// after each one. Total is -1 when the server sends no Content-Length.
//
// # Failures
//
// Network errors, non-2xx statuses and local I/O errors are returned to the
// caller. A partially written file is left on disk and nothing is retried.
//
// # Post-processing
//
// With Options.ResizeMaxWidth set, images wider than the limit are
// downscaled in place. The saved image's dimensions are reported in Result.
package download
