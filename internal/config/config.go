// Package config loads server configuration from the environment.
// A .env file in the working directory is honored for local development.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full server configuration
type Config struct {
	Host string `env:"HOST" envDefault:""`
	Port int    `env:"PORT" envDefault:"8080"`

	// "memory" or "redis"
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Comma-separated list; "*" allows any origin
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads configuration from .env (if present) and the environment
func Load() (Config, error) {
	// Missing .env is not an error; the environment alone is enough
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	switch cfg.StorageType {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}

	return cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AllowAnyOrigin reports whether origin checks are disabled
func (c Config) AllowAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
