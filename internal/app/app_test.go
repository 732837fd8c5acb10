package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/handiism/backdrop-downloader/internal/app"
	"github.com/handiism/backdrop-downloader/internal/config"
	"github.com/handiism/backdrop-downloader/internal/download"
	"github.com/handiism/backdrop-downloader/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prompter struct {
	answers []string
	asked   []string
	errors  []string
	infos   []string
}

func (p *prompter) Show(level workflow.Level, text string) {
	switch level {
	case workflow.LevelError:
		p.errors = append(p.errors, text)
	default:
		p.infos = append(p.infos, text)
	}
}

func (p *prompter) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.asked = append(p.asked, question)
	if len(p.answers) == 0 {
		return "", workflow.ErrInputClosed
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *prompter) Progress(download.Progress) {}

type provider struct {
	*httptest.Server
	validKey string
	calls    atomic.Int32

	mu   sync.Mutex
	keys []string
}

func (p *provider) seenKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func newProvider(t *testing.T, validKey string) *provider {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, jpeg.Encode(&img, image.NewRGBA(image.Rect(0, 0, 16, 9)), nil))

	p := &provider{validKey: validKey}
	mux := http.NewServeMux()
	mux.HandleFunc("/configuration", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != p.validKey {
			http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"images": map[string]any{}})
	})
	mux.HandleFunc("/search/multi", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"page": 1,
			"results": []map[string]any{
				{"id": 1396, "media_type": "tv", "name": "Breaking Bad", "first_air_date": "2008-01-20"},
			},
		})
	})
	mux.HandleFunc("/tv/1396/images", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id": 1396,
			"backdrops": []map[string]any{
				{"file_path": "/bb.jpg", "iso_639_1": nil, "width": 16, "height": 9},
			},
		})
	})
	mux.HandleFunc("/t/p/original/bb.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(img.Bytes())
	})

	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		if k := r.URL.Query().Get("api_key"); k != "" {
			p.mu.Lock()
			p.keys = append(p.keys, k)
			p.mu.Unlock()
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(p.Close)
	return p
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func settingsFor(t *testing.T, p *provider) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.APIBaseURL = p.URL
	s.ImageBaseURL = p.URL + "/t/p/"
	s.CredentialFile = filepath.Join(t.TempDir(), "api_key")
	s.DownloadsPath = t.TempDir()
	return s
}

func TestRun_EmptyCredentialFileMakesNoRequest(t *testing.T) {
	p := newProvider(t, "good")
	s := settingsFor(t, p)
	require.NoError(t, os.WriteFile(s.CredentialFile, []byte("  \n"), 0o600))

	pr := &prompter{}
	code := app.Run(context.Background(), s, pr, nil)

	assert.Equal(t, app.ExitCredential, code)
	assert.Zero(t, p.calls.Load())
	assert.Empty(t, pr.asked)
	require.Len(t, pr.errors, 1)
	assert.Contains(t, pr.errors[0], "empty")
}

func TestRun_EmptyPromptedKey(t *testing.T) {
	p := newProvider(t, "good")
	pr := &prompter{answers: []string{"   "}}

	code := app.Run(context.Background(), settingsFor(t, p), pr, nil)

	assert.Equal(t, app.ExitCredential, code)
	assert.Zero(t, p.calls.Load())
	assert.Equal(t, []string{"Enter your TMDB API key: "}, pr.asked)
}

func TestRun_InvalidKey(t *testing.T) {
	p := newProvider(t, "good")
	s := settingsFor(t, p)
	s.APIKey = "bad"

	pr := &prompter{answers: []string{"Breaking Bad"}}
	code := app.Run(context.Background(), s, pr, nil)

	assert.Equal(t, app.ExitCredential, code)
	assert.EqualValues(t, 1, p.calls.Load())
	assert.Empty(t, pr.asked)
	require.NotEmpty(t, pr.errors)
	assert.Contains(t, pr.errors[0], "not accepted")
}

func TestRun_PromptedKeyThenExit(t *testing.T) {
	p := newProvider(t, "from-prompt")
	pr := &prompter{answers: []string{" from-prompt ", "QUIT"}}

	code := app.Run(context.Background(), settingsFor(t, p), pr, nil)

	assert.Equal(t, app.ExitOK, code)
	assert.Equal(t, []string{"from-prompt"}, p.seenKeys())
	assert.Empty(t, pr.errors)
	assert.Contains(t, pr.infos, "Exiting.")
}

func TestRun_DownloadsDefaultName(t *testing.T) {
	p := newProvider(t, "good")
	s := settingsFor(t, p)
	s.APIKey = "good"

	pr := &prompter{answers: []string{
		"Breaking Bad", // query
		"1",            // candidate
		"1",            // no specific language
		"1",            // first backdrop
		"",             // default file name
		"0",            // back to languages
		"7",            // exit
	}}
	code := app.Run(context.Background(), s, pr, nil)

	assert.Equal(t, app.ExitOK, code)
	assert.Empty(t, pr.errors)

	saved := filepath.Join(s.DownloadsPath, "Breaking_Bad_backdrop_1.jpg")
	info, err := os.Stat(saved)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	var confirmed bool
	for _, line := range pr.infos {
		if strings.HasPrefix(line, "Image downloaded: "+saved) {
			confirmed = true
		}
	}
	assert.True(t, confirmed, "missing download confirmation in %q", pr.infos)
	for _, k := range p.seenKeys() {
		assert.Equal(t, "good", k)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	p := newProvider(t, "good")
	s := settingsFor(t, p)
	s.APIKey = "good"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr := &prompter{}
	code := app.Run(ctx, s, pr, nil)

	assert.Equal(t, app.ExitOK, code)
	assert.Contains(t, pr.infos, "Interrupted. Exiting...")
}
