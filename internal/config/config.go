package config

import (
	"github.com/caarlos0/env/v11"

	"groupbuy/internal/config/configs"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library.
// Nested structs are tagged with envPrefix so their fields are parsed with
// the given prefix. Use Load to construct a Config.
type Config struct {
	// Env names the deployment environment (e.g. prod, dev).
	Env string `env:"ENV" envDefault:"prod"`

	// Store selects the persistence backend: "postgres" or "memory".
	Store string `env:"STORE" envDefault:"postgres"`

	HTTP      configs.HTTP      `envPrefix:"HTTP_"`
	Log       configs.Logger    `envPrefix:"LOG_"`
	Psql      configs.Postgres  `envPrefix:"PSQL_"`
	Lifecycle configs.Lifecycle `envPrefix:"LIFECYCLE_"`
	Scheduler configs.Scheduler `envPrefix:"SCHEDULER_"`
	Redis     configs.Redis     `envPrefix:"REDIS_"`
}

// Load reads configuration from environment variables into a Config. All
// fields fall back to their defaults when no variable is set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
