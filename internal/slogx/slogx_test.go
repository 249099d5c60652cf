package slogx

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")

	log.Info("hidden")
	log.Warn("shown", "chunk", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown chunk=2")
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestNew_WritesRotatingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "polybars.log")
	log, closer := New("info", FileOptions{Path: p, MaxSizeMB: 1})

	log.Info("fetch done", "bars", 10)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetch done")
}

func TestNew_NoFile(t *testing.T) {
	log, closer := New("debug", FileOptions{})
	assert.NotNil(t, log)
	assert.NoError(t, closer.Close())
}
