package download_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/handiism/backdrop-downloader/internal/download"
	bhttp "github.com/handiism/backdrop-downloader/internal/http"
	"github.com/handiism/backdrop-downloader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func imageServer(t *testing.T, body []byte, withLength bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/original/b.jpg" {
			http.NotFound(w, r)
			return
		}
		if withLength {
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		} else {
			w.(http.Flusher).Flush()
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRetriever_Retrieve(t *testing.T) {
	body := jpegBytes(t, 64, 36)
	srv := imageServer(t, body, true)

	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	req := model.NewDownloadRequest(dir, "Breaking_Bad_backdrop_2.jpg", srv.URL+"/original/b.jpg")

	var last download.Progress
	r := download.NewRetriever(bhttp.NewClient(nil), download.Options{}, nil)
	res, err := r.Retrieve(context.Background(), req, func(p download.Progress) { last = p })
	require.NoError(t, err)

	assert.Equal(t, req.Path, res.Path)
	assert.Equal(t, int64(len(body)), res.Bytes)
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 36, res.Height)
	assert.False(t, res.Resized)

	got, err := os.ReadFile(req.Path)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	assert.Equal(t, int64(len(body)), last.Written)
	assert.Equal(t, int64(len(body)), last.Total)
	assert.Equal(t, 1.0, last.Fraction())
}

func TestRetriever_UnknownLength(t *testing.T) {
	body := jpegBytes(t, 8, 8)
	srv := imageServer(t, body, false)

	req := model.NewDownloadRequest(t.TempDir(), "b.jpg", srv.URL+"/original/b.jpg")
	var last download.Progress
	_, err := download.NewRetriever(bhttp.NewClient(nil), download.Options{}, nil).
		Retrieve(context.Background(), req, func(p download.Progress) { last = p })
	require.NoError(t, err)

	assert.Equal(t, int64(-1), last.Total)
	assert.Equal(t, -1.0, last.Fraction())
}

func TestRetriever_Resize(t *testing.T) {
	srv := imageServer(t, jpegBytes(t, 200, 100), true)

	req := model.NewDownloadRequest(t.TempDir(), "b.jpg", srv.URL+"/original/b.jpg")
	res, err := download.NewRetriever(bhttp.NewClient(nil), download.Options{ResizeMaxWidth: 100}, nil).
		Retrieve(context.Background(), req, nil)
	require.NoError(t, err)

	assert.True(t, res.Resized)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 50, res.Height)
}

func TestRetriever_StatusError(t *testing.T) {
	srv := imageServer(t, nil, true)

	req := model.NewDownloadRequest(t.TempDir(), "missing.jpg", srv.URL+"/original/missing.jpg")
	_, err := download.NewRetriever(bhttp.NewClient(nil), download.Options{}, nil).
		Retrieve(context.Background(), req, nil)

	var statusErr *bhttp.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestRetriever_NonImageBodyStillSaved(t *testing.T) {
	srv := imageServer(t, []byte("definitely not a jpeg"), true)

	req := model.NewDownloadRequest(t.TempDir(), "b.jpg", srv.URL+"/original/b.jpg")
	res, err := download.NewRetriever(bhttp.NewClient(nil), download.Options{}, nil).
		Retrieve(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Width)
	assert.FileExists(t, req.Path)
}

func TestRetriever_LocalIOError(t *testing.T) {
	srv := imageServer(t, jpegBytes(t, 4, 4), true)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// The "directory" is a regular file, so neither MkdirAll nor Create can succeed.
	req := model.NewDownloadRequest(blocker, "b.jpg", srv.URL+"/original/b.jpg")
	_, err := download.NewRetriever(bhttp.NewClient(nil), download.Options{}, nil).
		Retrieve(context.Background(), req, nil)
	assert.Error(t, err)
}

func TestRetriever_StalledBody(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write(make([]byte, 10))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	req := model.NewDownloadRequest(t.TempDir(), "b.jpg", srv.URL+"/original/b.jpg")
	r := download.NewRetriever(bhttp.NewClient(nil), download.Options{IdleTimeout: 100 * time.Millisecond}, nil)

	start := time.Now()
	res, err := r.Retrieve(context.Background(), req, nil)

	require.ErrorIs(t, err, download.ErrStalled)
	assert.Nil(t, res)
	assert.Less(t, time.Since(start), 5*time.Second)

	got, err := os.ReadFile(req.Path)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestRetriever_SlowBodyWithinIdleTimeout(t *testing.T) {
	body := jpegBytes(t, 16, 9)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		chunk := (len(body) + 4) / 5
		for off := 0; off < len(body); off += chunk {
			end := min(off+chunk, len(body))
			_, _ = w.Write(body[off:end])
			w.(http.Flusher).Flush()
			time.Sleep(40 * time.Millisecond)
		}
	}))
	t.Cleanup(srv.Close)

	req := model.NewDownloadRequest(t.TempDir(), "b.jpg", srv.URL+"/original/b.jpg")
	r := download.NewRetriever(bhttp.NewClient(nil), download.Options{IdleTimeout: 150 * time.Millisecond}, nil)

	res, err := r.Retrieve(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), res.Bytes)
	assert.Equal(t, 16, res.Width)
}

func TestRetriever_ResizeFailureKeepsDownload(t *testing.T) {
	body := []byte("definitely not a jpeg")
	srv := imageServer(t, body, true)

	req := model.NewDownloadRequest(t.TempDir(), "b.jpg", srv.URL+"/original/b.jpg")
	res, err := download.NewRetriever(bhttp.NewClient(nil), download.Options{ResizeMaxWidth: 100}, nil).
		Retrieve(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Error(t, res.ResizeErr)
	assert.False(t, res.Resized)
	assert.Equal(t, req.Path, res.Path)

	got, err := os.ReadFile(req.Path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}
