// Package config provides configuration loading and structs for the explorer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Dataset DatasetConfig `yaml:"dataset"`
	Search  SearchConfig  `yaml:"search"`
}

// DatasetConfig holds the record store location.
type DatasetConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds query, pagination, history, and job settings.
type SearchConfig struct {
	DefaultPageLimit        int     `yaml:"default_page_limit"`
	HistoryCap              int     `yaml:"history_cap"`
	HighConfidenceThreshold float64 `yaml:"high_confidence_threshold"`
	SimulatedLatencyMs      int     `yaml:"simulated_latency_ms"`
	MaxSuggestions          int     `yaml:"max_suggestions"`
}

// Load reads and parses the config file at path, expands the dataset path,
// and applies defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.Dataset.DatabasePath = expandPath(cfg.Dataset.DatabasePath, filepath.Dir(path))
	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
