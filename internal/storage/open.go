package storage

import (
	"fmt"

	"github.com/hperssn/unibalance/internal/config"
)

// Open picks the backend named by cfg.Storage.Driver.
func Open(cfg *config.Config) (Repository, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return NewSQLiteRepository(cfg.Storage.SQLitePath)
	case "postgres":
		return NewPostgresRepository(cfg.DB.DSN())
	case "memory":
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
