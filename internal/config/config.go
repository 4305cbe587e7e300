// Package config loads runtime configuration from the environment and
// named parameter presets from YAML.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings of the server and CLI.
type Config struct {
	Addr        string `env:"KILLZONE_ADDR" envDefault:":8080"`
	DBPath      string `env:"KILLZONE_DB" envDefault:"killzone.db"`
	LogLevel    string `env:"KILLZONE_LOG_LEVEL" envDefault:"info"`
	PresetsFile string `env:"KILLZONE_PRESETS"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
