// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ports defines the interfaces (ports) used by the application layer.
// These interfaces are implemented by adapters (repositories, external services).
// Following hexagonal architecture: interfaces are declared where they are consumed.
package ports

import (
	"context"

	"github.com/btouchard/viewbadge/internal/domain"
)

// CounterRepository defines persistence operations for view counters.
type CounterRepository interface {
	// Increment atomically adds one view and returns the new total.
	// Returns domain.ErrCounterNotFound if the counter does not exist.
	Increment(ctx context.Context, id domain.CounterID) (int64, error)

	// Get returns the current total without changing it.
	// Returns domain.ErrCounterNotFound if the counter does not exist.
	Get(ctx context.Context, id domain.CounterID) (int64, error)

	// Create adds a counter at zero views. It reports false when the
	// counter already existed, which is not an error.
	Create(ctx context.Context, id domain.CounterID) (bool, error)
}
