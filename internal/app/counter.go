// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/btouchard/viewbadge/internal/app/ports"
	"github.com/btouchard/viewbadge/internal/domain"
)

// CounterService handles view-counter use cases.
type CounterService struct {
	repo         ports.CounterRepository
	autoRegister bool
	logger       *slog.Logger
}

// CounterOption configures a CounterService.
type CounterOption func(*CounterService)

// WithAutoRegister makes Hit create unknown counters instead of failing.
func WithAutoRegister(enabled bool) CounterOption {
	return func(s *CounterService) { s.autoRegister = enabled }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) CounterOption {
	return func(s *CounterService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCounterService creates a new CounterService.
func NewCounterService(repo ports.CounterRepository, opts ...CounterOption) *CounterService {
	s := &CounterService{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit records a view for key and returns the new total.
// Returns domain.ErrCounterNotFound for unknown keys unless auto-registration is on.
func (s *CounterService) Hit(ctx context.Context, key string) (int64, error) {
	id, err := domain.NewCounterID(key)
	if err != nil {
		return 0, fmt.Errorf("hit counter: %w", err)
	}

	views, err := s.repo.Increment(ctx, id)
	if errors.Is(err, domain.ErrCounterNotFound) && s.autoRegister {
		created, cerr := s.repo.Create(ctx, id)
		if cerr != nil {
			return 0, fmt.Errorf("hit counter: %w", cerr)
		}
		if created {
			s.logger.Info("counter auto-registered", "counter", id)
		}
		views, err = s.repo.Increment(ctx, id)
	}
	if err != nil {
		return 0, fmt.Errorf("hit counter: %w", err)
	}

	return views, nil
}

// Peek returns the current total for key without recording a view.
func (s *CounterService) Peek(ctx context.Context, key string) (int64, error) {
	id, err := domain.NewCounterID(key)
	if err != nil {
		return 0, fmt.Errorf("peek counter: %w", err)
	}

	views, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("peek counter: %w", err)
	}

	return views, nil
}

// Register creates a counter for key. It reports whether a new counter was
// created; registering an existing key is not an error.
func (s *CounterService) Register(ctx context.Context, key string) (bool, error) {
	counter, err := domain.NewCounter(key)
	if err != nil {
		return false, fmt.Errorf("register counter: %w", err)
	}

	created, err := s.repo.Create(ctx, counter.ID)
	if err != nil {
		return false, fmt.Errorf("register counter: %w", err)
	}

	if created {
		s.logger.Info("counter registered", "counter", counter.ID)
	}
	return created, nil
}
