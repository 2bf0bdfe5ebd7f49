// SPDX-License-Identifier: AGPL-3.0-or-later

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/btouchard/viewbadge/internal/domain"
)

// CounterRepository implements ports.CounterRepository for PostgreSQL.
type CounterRepository struct {
	db *sql.DB
}

// NewCounterRepository creates a new CounterRepository.
func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Increment adds one view in a single statement and returns the new total.
func (r *CounterRepository) Increment(ctx context.Context, id domain.CounterID) (int64, error) {
	query := `
		UPDATE counters
		SET views = views + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING views
	`
	var views int64
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrCounterNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", id, err)
	}
	return views, nil
}

// Get returns the current total.
func (r *CounterRepository) Get(ctx context.Context, id domain.CounterID) (int64, error) {
	query := `SELECT views FROM counters WHERE id = $1`

	var views int64
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrCounterNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get counter %s: %w", id, err)
	}
	return views, nil
}

// Create inserts a counter at zero views unless it already exists.
func (r *CounterRepository) Create(ctx context.Context, id domain.CounterID) (bool, error) {
	query := `
		INSERT INTO counters (id, views)
		VALUES ($1, 0)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return false, fmt.Errorf("create counter %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
