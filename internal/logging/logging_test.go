package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Discard(t *testing.T) {
	logger, closeFn, err := New(Options{})
	require.NoError(t, err)
	logger.Info("nothing")
	assert.NoError(t, closeFn())
	assert.False(t, logger.Enabled(t.Context(), 0))
}

func TestNew_FileAndStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "backdrop.log")
	var stderr bytes.Buffer

	logger, closeFn, err := New(Options{File: path, Debug: true, Stderr: &stderr})
	require.NoError(t, err)

	logger.Debug("search done", "candidates", 3)
	require.NoError(t, closeFn())

	assert.Contains(t, stderr.String(), "search done")
	assert.Contains(t, stderr.String(), "candidates=3")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "search done", record["msg"])
	assert.Equal(t, float64(3), record["candidates"])
}
