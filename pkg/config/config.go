// Package config handles loading, validating and persisting the application
// configuration. Settings come from a YAML file with sensible defaults; the
// selected environment is persisted here so it survives restarts.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/pyscope/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Registry Registry `yaml:"registry"`
	Cache    Cache    `yaml:"cache"`
	Check    Check    `yaml:"check"`
	Settings Settings `yaml:"settings"`
}

// Registry configures the package index client.
type Registry struct {
	BaseURL     string        `yaml:"base_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Cache configures the in-memory caches.
type Cache struct {
	SnapshotTTL     time.Duration `yaml:"snapshot_ttl"`
	SnapshotMaxSize int           `yaml:"snapshot_max_size"`
	SearchTTL       time.Duration `yaml:"search_ttl"`
	SearchMaxSize   int           `yaml:"search_max_size"`
}

// Check configures update-check batches.
type Check struct {
	MaxWorkers       int           `yaml:"max_workers"`
	RateLimitWindow  time.Duration `yaml:"rate_limit_window"`
	Timeout          time.Duration `yaml:"timeout"`
	BatchInterval    time.Duration `yaml:"batch_interval"`
	BatchSize        int           `yaml:"batch_size"`
	FailureThreshold int           `yaml:"failure_threshold"`
}

// Settings represents general application settings.
type Settings struct {
	// SelectedEnv is the ID of the last selected environment.
	SelectedEnv string `yaml:"selected_env,omitempty"`
	LogLevel    string `yaml:"log_level"` // error, warn, info, debug
}

// Default configuration values.
const (
	DefaultBaseURL     = "https://pypi.org"
	DefaultHTTPTimeout = 10 * time.Second

	DefaultSnapshotTTL     = time.Hour
	DefaultSnapshotMaxSize = 20
	DefaultSearchTTL       = 5 * time.Minute
	DefaultSearchMaxSize   = 100

	DefaultMaxWorkers       = 4
	DefaultRateLimitWindow  = 30 * time.Second
	DefaultCheckTimeout     = 300 * time.Second
	DefaultBatchInterval    = 400 * time.Millisecond
	DefaultBatchSize        = 5
	DefaultFailureThreshold = 10

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	dirMode  = 0o755
	fileMode = 0o644
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Registry: Registry{
			BaseURL:     DefaultBaseURL,
			HTTPTimeout: DefaultHTTPTimeout,
		},
		Cache: Cache{
			SnapshotTTL:     DefaultSnapshotTTL,
			SnapshotMaxSize: DefaultSnapshotMaxSize,
			SearchTTL:       DefaultSearchTTL,
			SearchMaxSize:   DefaultSearchMaxSize,
		},
		Check: Check{
			MaxWorkers:       DefaultMaxWorkers,
			RateLimitWindow:  DefaultRateLimitWindow,
			Timeout:          DefaultCheckTimeout,
			BatchInterval:    DefaultBatchInterval,
			BatchSize:        DefaultBatchSize,
			FailureThreshold: DefaultFailureThreshold,
		},
		Settings: Settings{
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig saves configuration to a file, atomically via a temp file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), dirMode); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if !strings.HasPrefix(c.Registry.BaseURL, "http://") && !strings.HasPrefix(c.Registry.BaseURL, "https://") {
		return fmt.Errorf("registry base_url must be an http(s) URL, got %q", c.Registry.BaseURL)
	}
	if c.Registry.HTTPTimeout < 0 {
		return fmt.Errorf("registry http_timeout cannot be negative")
	}
	if c.Cache.SnapshotTTL < 0 || c.Cache.SearchTTL < 0 {
		return fmt.Errorf("cache TTLs cannot be negative")
	}
	if c.Check.MaxWorkers < 1 {
		return fmt.Errorf("check max_workers must be at least 1")
	}
	if c.Check.BatchSize < 1 {
		return fmt.Errorf("check batch_size must be at least 1")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Settings.LogLevel)] {
		return fmt.Errorf("invalid log level %q", c.Settings.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "pyscope", "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Registry.BaseURL == "" {
		c.Registry.BaseURL = defaults.Registry.BaseURL
	}
	if c.Registry.HTTPTimeout == 0 {
		c.Registry.HTTPTimeout = defaults.Registry.HTTPTimeout
	}
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = defaults.Cache.SnapshotTTL
	}
	if c.Cache.SnapshotMaxSize == 0 {
		c.Cache.SnapshotMaxSize = defaults.Cache.SnapshotMaxSize
	}
	if c.Cache.SearchTTL == 0 {
		c.Cache.SearchTTL = defaults.Cache.SearchTTL
	}
	if c.Cache.SearchMaxSize == 0 {
		c.Cache.SearchMaxSize = defaults.Cache.SearchMaxSize
	}
	if c.Check.MaxWorkers == 0 {
		c.Check.MaxWorkers = defaults.Check.MaxWorkers
	}
	if c.Check.RateLimitWindow == 0 {
		c.Check.RateLimitWindow = defaults.Check.RateLimitWindow
	}
	if c.Check.Timeout == 0 {
		c.Check.Timeout = defaults.Check.Timeout
	}
	if c.Check.BatchInterval == 0 {
		c.Check.BatchInterval = defaults.Check.BatchInterval
	}
	if c.Check.BatchSize == 0 {
		c.Check.BatchSize = defaults.Check.BatchSize
	}
	if c.Check.FailureThreshold == 0 {
		c.Check.FailureThreshold = defaults.Check.FailureThreshold
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
