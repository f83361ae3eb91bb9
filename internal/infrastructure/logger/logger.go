package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
)

// New собирает slog.Logger по секции log_config
func New(cfg config.LogConfig, env string) *slog.Logger {
	return slog.New(NewHandler(cfg, output(cfg.LogOutput))).With("service", "escrow-service", "env", env)
}

func NewHandler(cfg config.LogConfig, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func output(name string) io.Writer {
	if strings.EqualFold(name, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}
