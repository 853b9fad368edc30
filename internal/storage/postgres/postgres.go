// Package postgres implements the storage.Backend interface on PostgreSQL
// through the GORM backend.
package postgres

import (
	"fmt"

	"github.com/OCAP2/kmlscene/internal/config"
	"github.com/OCAP2/kmlscene/internal/database"
	gormstorage "github.com/OCAP2/kmlscene/internal/storage/gorm"
)

// Backend connects to Postgres on Init and delegates to the GORM backend.
type Backend struct {
	*gormstorage.Backend
	cfg  config.DBConfig
	opts gormstorage.Options
}

// New creates a new Postgres storage backend. No connection is made until Init.
func New(cfg config.DBConfig, opts gormstorage.Options) *Backend {
	return &Backend{
		Backend: gormstorage.New(nil, opts),
		cfg:     cfg,
		opts:    opts,
	}
}

// Init connects, validates the connection and runs schema migration.
func (b *Backend) Init() error {
	db, err := database.OpenPostgres(b.cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	b.Backend = gormstorage.New(db, b.opts)
	return b.Backend.Init()
}

// Close writes queued nodes and closes the connection pool.
func (b *Backend) Close() error {
	if err := b.Backend.Close(); err != nil {
		return err
	}
	db := b.Backend.DB()
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
