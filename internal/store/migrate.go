// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlite3migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Dialect names a SQL backend with its own migration set.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) migrationsDir() string {
	return "migrations/" + string(d)
}

func (d Dialect) driver(db *sql.DB) (database.Driver, error) {
	switch d {
	case DialectPostgres:
		return pgmigrate.WithInstance(db, &pgmigrate.Config{})
	case DialectSQLite:
		return sqlite3migrate.WithInstance(db, &sqlite3migrate.Config{})
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", d)
	}
}

// Migrate brings the schema for dialect up to date over db. The migration
// driver is not closed, so db stays usable; use it for pools that do not
// pin connections (SQLite).
func Migrate(dialect Dialect, db *sql.DB, logger *slog.Logger) error {
	_, err := migrateUp(dialect, db, logger)
	return err
}

// MigrateDSN migrates over a dedicated pool opened from dsn and closes it
// afterwards. The postgres driver pins a connection for its advisory lock,
// which must not leak into the serving pool.
func MigrateDSN(dialect Dialect, driverName, dsn string, logger *slog.Logger) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open %s for migration: %w", dialect, err)
	}

	m, err := migrateUp(dialect, db, logger)
	if m == nil {
		_ = db.Close()
		return err
	}
	// Closing the migration closes both its connection and db.
	if srcErr, dbErr := m.Close(); err == nil {
		err = errors.Join(srcErr, dbErr)
	}
	return err
}

func migrateUp(dialect Dialect, db *sql.DB, logger *slog.Logger) (*migrate.Migrate, error) {
	if logger == nil {
		logger = slog.Default()
	}

	src, err := iofs.New(migrationFS, dialect.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("open %s migrations: %w", dialect, err)
	}
	drv, err := dialect.driver(db)
	if err != nil {
		return nil, fmt.Errorf("make %s migration driver: %w", dialect, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, string(dialect), drv)
	if err != nil {
		return nil, fmt.Errorf("make %s migration: %w", dialect, err)
	}

	before, dirty, err := version(m)
	if err != nil {
		return m, fmt.Errorf("%s: read migration version: %w", dialect, err)
	}
	if dirty {
		return m, fmt.Errorf("%s: database is dirty at version %d", dialect, before)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return m, fmt.Errorf("migrate %s: %w", dialect, err)
	}

	after, _, err := version(m)
	if err != nil {
		return m, fmt.Errorf("%s: read migration version: %w", dialect, err)
	}
	if after != before {
		logger.Info("schema migrated", "dialect", dialect, "from", before, "to", after)
	}
	return m, nil
}

func version(m *migrate.Migrate) (uint, bool, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
