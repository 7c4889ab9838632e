// Package config loads spellcrawl settings: defaults, then an optional YAML
// file, then SPELLCRAWL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"spellcrawl/internal/generate"
	"spellcrawl/internal/logger"
	"spellcrawl/internal/telemetry"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SPELLCRAWL_"

// Config is the full application configuration.
type Config struct {
	// StartLevel is the dungeon level a new run begins on.
	StartLevel int `yaml:"start_level" env:"START_LEVEL"`
	// TickRate is simulation ticks per second in the viewer.
	TickRate int `yaml:"tick_rate" env:"TICK_RATE"`
	// SaveDB is the sqlite file holding save slots.
	SaveDB string `yaml:"save_db" env:"SAVE_DB"`

	Generation generate.Chances `yaml:"generation" envPrefix:"GEN_"`
	Logging    logger.Config    `yaml:"logging" envPrefix:"LOG_"`
	Telemetry  telemetry.Config `yaml:"telemetry" envPrefix:"TRACE_"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		StartLevel: 1,
		TickRate:   60,
		SaveDB:     "data/saves.db",
		Generation: generate.DefaultChances(),
		Logging:    logger.DefaultConfig(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error; an empty path skips
// the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.StartLevel < 1 {
		errs = append(errs, fmt.Errorf("start_level %d must be at least 1", c.StartLevel))
	}
	if c.TickRate < 1 {
		errs = append(errs, fmt.Errorf("tick_rate %d must be positive", c.TickRate))
	}
	for _, pct := range []struct {
		name string
		v    int
	}{
		{"swap", c.Generation.Swap},
		{"double", c.Generation.Double},
		{"short", c.Generation.Short},
		{"long", c.Generation.Long},
	} {
		if pct.v < 0 || pct.v > 100 {
			errs = append(errs, fmt.Errorf("generation.%s %d outside 0..100", pct.name, pct.v))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
