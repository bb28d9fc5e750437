package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates the client's default logger: text output on stderr with the
// level taken from LOG_LEVEL (debug, info, warn, error; default info).
func New() *slog.Logger {
	return NewWithOutput(os.Stderr)
}

// NewWithOutput creates a logger writing to w.
func NewWithOutput(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
