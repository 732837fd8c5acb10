package http_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	bhttp "github.com/handiism/backdrop-downloader/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, bhttp.UserAgent, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "application/json")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok","count":3}`))
	}))
	defer srv.Close()

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	client := bhttp.NewClient(nil)
	require.NoError(t, client.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "ok", out.Name)
	assert.Equal(t, 3, out.Count)
}

func TestClient_GetJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out map[string]any
	err := bhttp.NewClient(nil).GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)

	var statusErr *bhttp.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}

func TestClient_GetJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	var out map[string]any
	err := bhttp.NewClient(nil).GetJSON(context.Background(), srv.URL, &out)
	assert.ErrorContains(t, err, "decode response")
}

func TestClient_DownloadFile(t *testing.T) {
	payload := bytes.Repeat([]byte{0xFF, 0xD8, 0x42}, bhttp.ChunkSize)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "backdrop.jpg")

	var updates [][2]int64
	n, err := bhttp.NewClient(nil).DownloadFile(context.Background(), srv.URL, dest, func(written, total int64) {
		updates = append(updates, [2]int64{written, total})
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NotEmpty(t, updates)
	assert.Greater(t, len(updates), 1, "download should be reported in several chunks")
	var last int64
	for _, u := range updates {
		assert.GreaterOrEqual(t, u[0], last)
		assert.LessOrEqual(t, u[0]-last, int64(bhttp.ChunkSize))
		assert.Equal(t, int64(len(payload)), u[1])
		last = u[0]
	}
	assert.Equal(t, int64(len(payload)), last)
}

func TestClient_DownloadFileStatusErrorCreatesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.jpg")
	_, err := bhttp.NewClient(nil).DownloadFile(context.Background(), srv.URL, dest, nil)

	var statusErr *bhttp.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.NoFileExists(t, dest)
}

func TestClient_DownloadFileUnwritableDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "no-such-dir", "b.jpg")
	_, err := bhttp.NewClient(nil).DownloadFile(context.Background(), srv.URL, dest, nil)
	assert.Error(t, err)
}
