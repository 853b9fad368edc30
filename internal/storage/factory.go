// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/kmlscene/internal/config"
	gormstorage "github.com/OCAP2/kmlscene/internal/storage/gorm"
	"github.com/OCAP2/kmlscene/internal/storage/memory"
	"github.com/OCAP2/kmlscene/internal/storage/postgres"
	sqlitestorage "github.com/OCAP2/kmlscene/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, db config.DBConfig, log *slog.Logger) (Backend, error) {
	opts := gormstorage.Options{BatchSize: cfg.BatchSize, Logger: log}

	switch cfg.Type {
	case "postgres":
		return postgres.New(db, opts), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path:         cfg.SQLite.Path,
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, opts)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
