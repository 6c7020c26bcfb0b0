// Package logging provides structured logging configuration using log/slog.
//
// Every processing run gets its own logger carrying a run_id, so log
// lines from interrupted and resumed runs remain distinguishable when
// aggregated.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format when the output is consumed by log tooling;
// "text" format for human readability on a terminal. Logs go to stderr
// so they never mix with anything a caller pipes from stdout.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
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

// NewRunLogger returns a logger tagged with a fresh run identifier,
// along with the identifier itself.
func NewRunLogger() (*slog.Logger, string) {
	runID := uuid.NewString()
	return slog.Default().With("run_id", runID), runID
}
