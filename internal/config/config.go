// Package config loads embedder configuration the same way the
// teacher's internal/config did: a .env file (if present) merged into
// environment variables via godotenv, then struct-tagged parsing via
// envconfig.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting cmd/legerd and cmd/legerctl need: which
// node to talk to, how aggressively to reconnect, and how to log.
type Config struct {
	NodeAddr string `envconfig:"LEGER_NODE_ADDR" default:"127.0.0.1:9944"`

	LogLevel string `envconfig:"LEGER_LOG_LEVEL" default:"info"`
	LogDir   string `envconfig:"LEGER_LOG_DIR" default:"./logs"`

	ReadTimeout time.Duration `envconfig:"LEGER_READ_TIMEOUT" default:"2s"`

	ReconnectRPS        float64       `envconfig:"LEGER_RECONNECT_RPS" default:"1"`
	ReconnectFailThresh int           `envconfig:"LEGER_RECONNECT_FAIL_THRESHOLD" default:"3"`
	ReconnectCooldown   time.Duration `envconfig:"LEGER_RECONNECT_COOLDOWN" default:"5s"`

	MultiAddressDiscriminant bool `envconfig:"LEGER_MULTIADDRESS_DISCRIMINANT" default:"false"`

	HTTPPort int `envconfig:"LEGER_HTTP_PORT" default:"8080"`
}

// Load reads a .env file (if present, without overriding real
// environment variables) and then envconfig.Process into a Config.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Warn("failed to load .env file", "error", err)
		} else {
			slog.Info("loaded .env file")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("%w: http port must be 1-65535, got %d", ErrInvalidConfig, c.HTTPPort)
	}
	if c.ReconnectRPS <= 0 {
		return fmt.Errorf("%w: reconnect rps must be positive, got %v", ErrInvalidConfig, c.ReconnectRPS)
	}
	return nil
}
