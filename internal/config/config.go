// Package config provides environment-driven configuration for go-temi-rest.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Default server configuration.
const (
	DefaultPort      = 7755
	DefaultBridgeURL = "http://127.0.0.1:8038"
)

// Config holds the runtime configuration for the REST gateway.
// Every field can be set from the environment; flags in cmd/temi-rest
// take precedence over environment values.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `env:"TEMI_PORT" envDefault:"7755"`

	// BridgeURL is the base URL of the on-robot SDK bridge daemon.
	BridgeURL string `env:"TEMI_BRIDGE_URL" envDefault:"http://127.0.0.1:8038"`

	// Sim runs against the in-process simulated robot instead of the bridge.
	Sim bool `env:"TEMI_SIM" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"TEMI_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment config: %w", err)
	}
	return cfg, nil
}
