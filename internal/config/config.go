// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration. Every field has a development
// default except DATABASE_URL, which is only required when DB_DRIVER is
// "postgres", and JWT_SECRET, which enables the authenticated routes.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// DBDriver selects the storage adapter: "sqlite" or "postgres".
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"data/examverse.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	// JWTSecret signs session tokens. Empty disables /api/me and the
	// login cookie; login itself still works via the session ID.
	JWTSecret string `env:"JWT_SECRET"`

	// HashScheme picks the credential hasher: "sha256" keeps digests
	// compatible with accounts imported from the legacy platform,
	// "bcrypt" is for fresh deployments.
	HashScheme string `env:"HASH_SCHEME" envDefault:"sha256"`

	// StrictEmail restricts registration to the official college domains.
	StrictEmail bool `env:"STRICT_EMAIL" envDefault:"false"`

	// RegistrationAutoActivate creates accounts as active instead of
	// pending, skipping admin approval.
	RegistrationAutoActivate bool `env:"REGISTRATION_AUTO_ACTIVATE" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the environment and validates the combinations that would
// otherwise only fail at first request.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBPath == "" {
			return Config{}, fmt.Errorf("config: DB_PATH is required with the sqlite driver")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("config: DATABASE_URL is required with the postgres driver")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	switch cfg.HashScheme {
	case "sha256", "bcrypt":
	default:
		return Config{}, fmt.Errorf("config: unknown HASH_SCHEME %q (want sha256 or bcrypt)", cfg.HashScheme)
	}

	return cfg, nil
}
