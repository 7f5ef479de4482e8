package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaseURL, cfg.Registry.BaseURL)
	assert.Equal(t, DefaultMaxWorkers, cfg.Check.MaxWorkers)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Empty(t, cfg.Settings.SelectedEnv)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigFromReaderAppliesDefaults(t *testing.T) {
	input := `
registry:
  base_url: https://mirror.example.org
check:
  max_workers: 8
settings:
  selected_env: abc123def4567890
`
	cfg, err := LoadConfigFromReader(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.example.org", cfg.Registry.BaseURL)
	assert.Equal(t, 8, cfg.Check.MaxWorkers)
	assert.Equal(t, "abc123def4567890", cfg.Settings.SelectedEnv)
	// Unset fields fall back to defaults.
	assert.Equal(t, DefaultHTTPTimeout, cfg.Registry.HTTPTimeout)
	assert.Equal(t, DefaultBatchSize, cfg.Check.BatchSize)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
}

func TestLoadConfigFromReaderRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad url", "registry:\n  base_url: ftp://example.org\n"},
		{"bad log level", "settings:\n  log_level: loud\n"},
		{"malformed yaml", "registry: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Settings.SelectedEnv = "deadbeef00000000"
	cfg.Check.RateLimitWindow = time.Minute
	require.NoError(t, cfg.SaveConfig(path))

	// No leftover temp file from the atomic write.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef00000000", loaded.Settings.SelectedEnv)
	assert.Equal(t, time.Minute, loaded.Check.RateLimitWindow)
}

func TestToYAML(t *testing.T) {
	data, err := DefaultConfig().ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: https://pypi.org")
}
