// Package gormstore implements service.Store and service.PrincipalStore on GORM with SQLite.
package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// defaultParams are appended to plain file paths.
	defaultParams = "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

	// memoryPath is the conventional SQLite in-memory path.
	memoryPath = ":memory:"

	// memoryDSN is one in-memory database shared by every pooled connection.
	memoryDSN = "file::memory:?cache=shared&_foreign_keys=on"
)

// Store is the SQL-backed task and principal store.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (or creates) the SQLite database at path.
// path may be a plain file path, ":memory:" or a full SQLite DSN.
func Open(path string) (*Store, error) {
	dsn := path
	switch {
	case path == memoryPath:
		// A bare :memory: gives each pooled connection its own empty database
		dsn = memoryDSN
	case !strings.Contains(dsn, "?"):
		dsn += defaultParams
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == memoryPath {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// Shared-cache writers lock each other out; keep one connection
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db), nil
}

// New wraps an existing GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates the tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&userRecord{}, &taskRecord{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
