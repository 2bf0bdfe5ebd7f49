// SPDX-License-Identifier: AGPL-3.0-or-later

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/btouchard/viewbadge/internal/domain"
)

// CounterRepository implements ports.CounterRepository for SQLite.
type CounterRepository struct {
	db *sqlx.DB
}

// NewCounterRepository creates a new CounterRepository.
func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Increment adds one view and reads the new total inside one transaction.
func (r *CounterRepository) Increment(ctx context.Context, id domain.CounterID) (views int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: begin: %w", id, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE counters SET views = views + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id.String())
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return 0, domain.ErrCounterNotFound
	}

	if err = tx.GetContext(ctx, &views, `SELECT views FROM counters WHERE id = ?`, id.String()); err != nil {
		return 0, fmt.Errorf("increment counter %s: read back: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("increment counter %s: commit: %w", id, err)
	}
	return views, nil
}

// Get returns the current total.
func (r *CounterRepository) Get(ctx context.Context, id domain.CounterID) (int64, error) {
	var views int64
	err := r.db.GetContext(ctx, &views, `SELECT views FROM counters WHERE id = ?`, id.String())
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
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO counters (id, views) VALUES (?, 0) ON CONFLICT (id) DO NOTHING`,
		id.String())
	if err != nil {
		return false, fmt.Errorf("create counter %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
