package store

import "fmt"

// Config selects and parameterizes a store backend.
type Config struct {
	Backend string `json:"backend" mapstructure:"backend"` // postgres, sqlite, memory
	DSN     string `json:"dsn" mapstructure:"dsn"`
}

// New creates a Querier for the configured backend. Postgres and SQLite
// require a DSN; its absence is a configuration error, not a runtime one.
func New(cfg Config) (Querier, error) {
	switch cfg.Backend {
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a dsn")
		}
		return OpenSQL("pgx", cfg.DSN)

	case "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqlite backend requires a dsn")
		}
		return OpenSQL("sqlite3", cfg.DSN)

	case "memory":
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s (expected 'postgres', 'sqlite' or 'memory')", cfg.Backend)
	}
}
