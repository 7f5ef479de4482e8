// Package logger configures the process-wide slog logger for CLI use.
// Library packages take a *slog.Logger via their constructors; the global
// here exists only so commands share one configured instance.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	logger *slog.Logger
	output io.Writer = os.Stderr
)

// SetOutput redirects log output, used by tests to capture logs.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
	logger = nil
}

// InitLogger initializes the global logger at the given level. Unrecognized
// levels fall back to info.
func InitLogger(logLevel string) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(output, logLevel)
}

// GetLogger returns the configured logger instance, initializing it with
// defaults on first use.
func GetLogger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger(output, "info")
	}
	return logger
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	})
	return slog.New(handler)
}

func parseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
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
