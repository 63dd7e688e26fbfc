// Package config loads process settings from TABLEQUEST_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/tablequest/internal/store"
)

// Prefix is prepended to every variable name.
const Prefix = "TABLEQUEST_"

// Config is the process configuration.
type Config struct {
	DBPath   string `env:"DB"`
	LogPath  string `env:"LOG"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// Load parses the environment and fills in data-dir defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" || cfg.LogPath == "" {
		dir, err := store.DataDir()
		if err != nil {
			return cfg, err
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "tablequest.db")
		}
		if cfg.LogPath == "" {
			cfg.LogPath = filepath.Join(dir, "tablequest.log")
		}
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level; unknown names mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// TracingEnabled reports whether spans should be exported.
func (c Config) TracingEnabled() bool {
	return c.OTelEnabled && c.OTelEndpoint != ""
}
