package model

import (
	"path/filepath"
)

// DownloadRequest describes one image download.
type DownloadRequest struct {
	// Path is the local file path, directory included.
	Path string

	// URL is the fully-qualified remote image URL.
	URL string
}

// NewDownloadRequest joins dir and fileName into the request path.
//
// fileName is expected to be already sanitized; dir may be empty for the
// current working directory.
func NewDownloadRequest(dir, fileName, url string) DownloadRequest {
	return DownloadRequest{
		Path: filepath.Join(dir, fileName),
		URL:  url,
	}
}
