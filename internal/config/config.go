// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted by DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds everything the server needs to start. Values come from
// environment variables; a .env file is loaded first in main.
type Config struct {
	// Addr is the listen address for the RPC and metrics endpoints.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBDriver selects the storage backend: sqlite, postgres, or memory.
	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`

	// DBPath is the SQLite database file (sqlite driver only).
	DBPath string `env:"DB_PATH" envDefault:"./data/ledger.db"`

	// DatabaseURL is the PostgreSQL DSN (postgres driver only).
	DatabaseURL string `env:"DATABASE_URL"`

	// KafkaBrokers enables event publishing when non-empty.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// KafkaTopic is the topic posted-entry events are written to.
	KafkaTopic string `env:"KAFKA_TOPIC" envDefault:"ledger_entry_posted"`
}

// Load parses the environment into a Config and checks that the driver
// selection is usable.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("config: DB_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}
