package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(config.LogConfig{LogLevel: "info", LogFormat: "json"}, &buf))

	log.Debug("hidden")
	log.Info("escrow proposed", slog.String("escrow_key", "abc"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "escrow proposed", entry["msg"])
	assert.Equal(t, "abc", entry["escrow_key"])
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(config.LogConfig{LogLevel: "debug", LogFormat: "text"}, &buf))

	log.Debug("dispute operation rejected", "dispute_id", 7)

	assert.Contains(t, buf.String(), "dispute_id=7")
}
