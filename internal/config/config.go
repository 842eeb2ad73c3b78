// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration for the server.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the path to the SQLite database file.
	DBPath string `env:"DB_PATH" envDefault:"./data/xpense.db"`

	// JWTSecret signs access tokens. When empty, the server generates an
	// ephemeral secret at startup and existing tokens stop working on
	// restart.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenDuration is how long access tokens remain valid.
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
