// SPDX-License-Identifier: AGPL-3.0-or-later

// Package memory provides an in-process counter repository for development
// and single-instance deployments where losing counts on restart is fine.
package memory

import (
	"context"
	"sync"

	"github.com/btouchard/viewbadge/internal/domain"
)

// CounterRepository implements ports.CounterRepository with a map.
type CounterRepository struct {
	mu       sync.Mutex
	counters map[domain.CounterID]int64
}

// NewCounterRepository creates an empty repository.
func NewCounterRepository() *CounterRepository {
	return &CounterRepository{counters: make(map[domain.CounterID]int64)}
}

// Increment adds one view and returns the new total.
func (r *CounterRepository) Increment(ctx context.Context, id domain.CounterID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	views, ok := r.counters[id]
	if !ok {
		return 0, domain.ErrCounterNotFound
	}
	views++
	r.counters[id] = views
	return views, nil
}

// Get returns the current total.
func (r *CounterRepository) Get(ctx context.Context, id domain.CounterID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	views, ok := r.counters[id]
	if !ok {
		return 0, domain.ErrCounterNotFound
	}
	return views, nil
}

// Create adds a counter at zero views unless it already exists.
func (r *CounterRepository) Create(ctx context.Context, id domain.CounterID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.counters[id]; ok {
		return false, nil
	}
	r.counters[id] = 0
	return true, nil
}

// Close is a no-op so the repository can stand in for a closable store.
func (r *CounterRepository) Close() error { return nil }
