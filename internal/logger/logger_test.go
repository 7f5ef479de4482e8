package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(nil)

	InitLogger(level)
	fn()
	return buf.String()
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { GetLogger().Info("loaded packages", "count", 12) },
			contains: []string{"loaded packages", "count=12", "level=INFO"},
		},
		{
			name:     "debug shown at debug level",
			level:    "debug",
			logFn:    func() { GetLogger().Debug("cache hit") },
			contains: []string{"cache hit", "level=DEBUG"},
		},
		{
			name:     "debug hidden at info level",
			level:    "info",
			logFn:    func() { GetLogger().Debug("cache hit") },
			excludes: []string{"cache hit"},
		},
		{
			name:     "info hidden at error level",
			level:    "error",
			logFn:    func() { GetLogger().Info("loaded packages") },
			excludes: []string{"loaded packages"},
		},
		{
			name:     "unknown level falls back to info",
			level:    "loud",
			logFn:    func() { GetLogger().Info("still visible") },
			contains: []string{"still visible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, notWant := range tt.excludes {
				assert.NotContains(t, output, notWant)
			}
		})
	}
}

func TestGetLoggerInitializesIfNil(t *testing.T) {
	SetOutput(nil)
	assert.NotPanics(t, func() {
		lg := GetLogger()
		assert.NotNil(t, lg)
	})
}
