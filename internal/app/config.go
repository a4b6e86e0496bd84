package app

import (
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a normalised copy.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, fmt.Errorf("invalid log-level '%s': must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	paths := cfg.ManifestPaths[:0:0]
	for _, p := range cfg.ManifestPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	cfg.ManifestPaths = paths

	return &cfg, nil
}
