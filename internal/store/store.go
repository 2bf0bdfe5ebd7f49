// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store selects and opens the counter backend named by a database URL.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/btouchard/viewbadge/internal/adapters/memory"
	"github.com/btouchard/viewbadge/internal/adapters/postgres"
	"github.com/btouchard/viewbadge/internal/adapters/redis"
	"github.com/btouchard/viewbadge/internal/adapters/sqlite"
	"github.com/btouchard/viewbadge/internal/app/ports"
)

// Kind identifies a counter backend.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
	KindRedis    Kind = "redis"
)

// Backend is an opened counter store.
type Backend struct {
	Kind     Kind
	Counters ports.CounterRepository
	closer   io.Closer
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// ParseURL splits a database URL into a backend kind and the
// backend-specific address:
//
//	memory://                      in-process map
//	postgres://user:pw@host/db     PostgreSQL (also postgresql://)
//	sqlite:///data/sqlite.db       SQLite file (also sqlite://relative.db)
//	redis://host:6379/0            Redis (also rediss://)
func ParseURL(dbURL string) (Kind, string, error) {
	scheme, rest, ok := strings.Cut(dbURL, "://")
	if !ok {
		return "", "", fmt.Errorf("database url %q has no scheme", dbURL)
	}

	switch strings.ToLower(scheme) {
	case "memory", "mem":
		return KindMemory, "", nil
	case "postgres", "postgresql":
		return KindPostgres, dbURL, nil
	case "sqlite", "sqlite3", "file":
		if rest == "" {
			return "", "", fmt.Errorf("database url %q has no path", dbURL)
		}
		return KindSQLite, rest, nil
	case "redis", "rediss":
		return KindRedis, dbURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// Open connects to the backend named by dbURL and runs SQL migrations.
func Open(ctx context.Context, dbURL string, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kind, addr, err := ParseURL(dbURL)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindMemory:
		repo := memory.NewCounterRepository()
		return &Backend{Kind: kind, Counters: repo, closer: repo}, nil

	case KindPostgres:
		if err := MigrateDSN(DialectPostgres, "postgres", addr, logger); err != nil {
			return nil, err
		}
		s, err := postgres.NewStore(ctx, addr)
		if err != nil {
			return nil, err
		}
		return &Backend{Kind: kind, Counters: s.CounterRepository(), closer: s}, nil

	case KindSQLite:
		s, err := sqlite.NewStore(ctx, addr)
		if err != nil {
			return nil, err
		}
		if err := Migrate(DialectSQLite, s.DB().DB, logger); err != nil {
			_ = s.Close()
			return nil, err
		}
		return &Backend{Kind: kind, Counters: s.CounterRepository(), closer: s}, nil

	case KindRedis:
		s, err := redis.NewStore(ctx, addr)
		if err != nil {
			return nil, err
		}
		return &Backend{Kind: kind, Counters: s.CounterRepository(), closer: s}, nil
	}

	return nil, fmt.Errorf("unsupported backend %q", kind)
}
