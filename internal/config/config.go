// Package config loads the dashboard settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

// Config is read once at startup; flags may override it afterwards.
type Config struct {
	Addr            string        `env:"POPDASH_ADDR"             envDefault:":8080"`
	DataPath        string        `env:"POPDASH_DATA_PATH"        envDefault:"countries-table.csv"`
	Years           []int         `env:"POPDASH_YEARS"            envDefault:"1980,2000,2010,2022,2023,2030,2050" envSeparator:","`
	TopN            int           `env:"POPDASH_TOP_N"            envDefault:"10"`
	LogLevel        string        `env:"POPDASH_LOG_LEVEL"        envDefault:"info"`
	RateLimit       float64       `env:"POPDASH_RATE_LIMIT"       envDefault:"0"`
	ShutdownTimeout time.Duration `env:"POPDASH_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that env tags cannot express.
func (c Config) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top n must be positive, got %d", c.TopN)
	}
	if len(c.Years) == 0 {
		return fmt.Errorf("no years configured")
	}
	seen := make(map[int]bool, len(c.Years))
	for _, y := range c.Years {
		if seen[y] {
			return fmt.Errorf("year %d listed twice", y)
		}
		seen[y] = true
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Level returns the logrus level for LogLevel. Validate has already
// rejected unknown names.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
