// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("info")                     // level name from config
//	logging.SetupWithLevel(slog.LevelDebug)   // explicit level override
//	logger := logging.New(os.Stderr, "debug") // standalone logger for a component
//
// Accepted level names: debug, info, warn, error (default: info).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a colored default logger at the named level.
func Setup(level string) {
	SetupWithLevel(ParseLevel(level))
}

// SetupWithLevel installs a colored default logger at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, level)))
}

// New returns a colored logger writing to w without touching the default.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(newHandler(w, ParseLevel(level)))
}

// Discard returns a logger that drops every record. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
	})
}

// ParseLevel maps a level name to a slog.Level, falling back to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
