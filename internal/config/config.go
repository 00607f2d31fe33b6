// Package config loads semtrim configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents semtrim configuration options.
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// CachePath is the location of the verdict cache database.
	CachePath string `yaml:"cache_path"`

	// AlwaysUseful lists pattern tokens treated as always existing, the way
	// the built-in HOME_DIR token is. Useful for policies with site-specific
	// substitution macros.
	AlwaysUseful []string `yaml:"always_useful"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		CachePath: defaultCachePath(),
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".semtrim.yaml"
	}
	return filepath.Join(home, ".semtrim.yaml")
}

// Load loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.CachePath == "" {
		return fmt.Errorf("cache_path must not be empty")
	}
	return nil
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".semtrim", "verdicts.db")
	}
	return filepath.Join(home, ".semtrim", "verdicts.db")
}
