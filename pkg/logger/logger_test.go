package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"error": slog.LevelError,
		"warn":  slog.LevelWarn,
		"info":  slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"":      slog.LevelInfo,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestInit_WritesJSONToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "client.log")

	log, closer, err := Init(dest, "info")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("Polling started", "interval", "3s")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(dest)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Polling started", entry["msg"])
	assert.Equal(t, "3s", entry["interval"])
}

func TestInit_BadLevel(t *testing.T) {
	_, _, err := Init(filepath.Join(t.TempDir(), "x.log"), "loud")
	require.Error(t, err)
}
