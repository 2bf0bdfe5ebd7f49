// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sqlite provides SQLite implementations of the repository interfaces.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store holds the database connection and provides access to repositories.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (creating if needed) the SQLite database at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=rwc&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for migrations.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// CounterRepository returns a CounterRepository backed by this store.
func (s *Store) CounterRepository() *CounterRepository {
	return NewCounterRepository(s.db)
}
