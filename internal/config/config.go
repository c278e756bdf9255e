// Package config loads lolmetrics settings from defaults, an optional YAML
// file and LOLMETRICS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "LOLMETRICS_"

// DefaultAnalyzeModel is the model used by `analyze match` unless overridden.
const DefaultAnalyzeModel = "claude-haiku-4-5-20251001"

// Config holds the runtime configuration of the CLI.
type Config struct {
	DBPath       string `koanf:"db_path"`
	Workers      int    `koanf:"workers"`
	LogLevel     string `koanf:"log_level"`
	AnalyzeModel string `koanf:"analyze_model"`
	StoreFrames  bool   `koanf:"store_frames"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		DBPath:       DefaultDBPath(),
		Workers:      runtime.NumCPU(),
		LogLevel:     "info",
		AnalyzeModel: DefaultAnalyzeModel,
		StoreFrames:  true,
	}
}

// DefaultDBPath returns ~/.lolmetrics/metrics.db, or a relative path when the
// home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lolmetrics", "metrics.db")
	}
	return filepath.Join(home, ".lolmetrics", "metrics.db")
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file at path, or at $LOLMETRICS_CONFIG when path is empty
//  3. env (prefix LOLMETRICS_, e.g. LOLMETRICS_DB_PATH)
func Load(path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// Flat keys: LOLMETRICS_DB_PATH -> db_path.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
