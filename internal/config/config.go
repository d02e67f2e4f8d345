package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/freeeve/referee/pkg/diplomacy"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
	Dev      bool   `env:"DEV"`

	RefereeMode          diplomacy.RefereeMode `env:"REFEREE_MODE" envDefault:"auto"`
	RefereeTrials        int                   `env:"REFEREE_TRIALS" envDefault:"2500"`
	RefereeMaxPermOrders int                   `env:"REFEREE_MAX_PERMUTATION_ORDERS" envDefault:"7"`
	RefereeWorkers       int                   `env:"REFEREE_WORKERS" envDefault:"1"`
	RefereeSeed          int64                 `env:"REFEREE_SEED" envDefault:"1"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the Referee cannot run with.
func (c *Config) Validate() error {
	if c.RefereeTrials < 1 {
		return fmt.Errorf("REFEREE_TRIALS must be positive, got %d", c.RefereeTrials)
	}
	if c.RefereeMaxPermOrders < 1 {
		return fmt.Errorf("REFEREE_MAX_PERMUTATION_ORDERS must be positive, got %d", c.RefereeMaxPermOrders)
	}
	if c.RefereeWorkers < 1 {
		return fmt.Errorf("REFEREE_WORKERS must be positive, got %d", c.RefereeWorkers)
	}
	return nil
}

// RefereeOptions converts the referee settings, logging through l.
func (c *Config) RefereeOptions(l zerolog.Logger) diplomacy.RefereeOptions {
	return diplomacy.RefereeOptions{
		Mode:                 c.RefereeMode,
		Trials:               c.RefereeTrials,
		MaxPermutationOrders: c.RefereeMaxPermOrders,
		Workers:              c.RefereeWorkers,
		Seed:                 c.RefereeSeed,
		Logger:               l,
	}
}
