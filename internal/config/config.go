// Package config loads nbaefg settings from defaults, an optional YAML file
// and NBAEFG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. NBAEFG_WORKERS.
const EnvPrefix = "NBAEFG_"

// DefaultIndexURL lists the downloadable nba_data archives as name=url lines.
const DefaultIndexURL = "https://raw.githubusercontent.com/shufinskiy/nba_data/main/list_data.txt"

// Config holds all runtime settings.
type Config struct {
	DBPath         string        `koanf:"db_path"`
	DataDir        string        `koanf:"data_dir"`
	OutDir         string        `koanf:"out_dir"`
	Workers        int           `koanf:"workers"`
	LogLevel       string        `koanf:"log_level"`
	LogFormat      string        `koanf:"log_format"`
	IndexURL       string        `koanf:"index_url"`
	HTTPTimeout    time.Duration `koanf:"http_timeout"`
	MaxRetries     int           `koanf:"max_retries"`
	AnthropicModel string        `koanf:"anthropic_model"`
}

// Default returns the built-in settings rooted at ~/.nbaefg.
func Default() *Config {
	home := homeDir()
	base := filepath.Join(home, ".nbaefg")
	return &Config{
		DBPath:         filepath.Join(base, "shots.db"),
		DataDir:        filepath.Join(base, "data"),
		OutDir:         filepath.Join(base, "processed_pbp"),
		Workers:        runtime.NumCPU(),
		LogLevel:       "info",
		LogFormat:      "console",
		IndexURL:       DefaultIndexURL,
		HTTPTimeout:    60 * time.Second,
		MaxRetries:     3,
		AnthropicModel: "claude-haiku-4-5-20251001",
	}
}

// Load layers defaults, the YAML file at path (or $NBAEFG_CONFIG when path
// is empty) and NBAEFG_* environment variables, lowest precedence first.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if c.OutDir == "" {
		errs = append(errs, errors.New("out_dir must not be empty"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout))
	}
	return errors.Join(errs...)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
