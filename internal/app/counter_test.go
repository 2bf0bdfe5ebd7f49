// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/btouchard/viewbadge/internal/domain"
)

// mockCounterRepo is a test double for ports.CounterRepository.
type mockCounterRepo struct {
	mu        sync.Mutex
	counters  map[string]int64
	incrErr   error
	getErr    error
	createErr error
}

func newMockCounterRepo() *mockCounterRepo {
	return &mockCounterRepo{
		counters: make(map[string]int64),
	}
}

func (m *mockCounterRepo) Increment(ctx context.Context, id domain.CounterID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	v, ok := m.counters[id.String()]
	if !ok {
		return 0, domain.ErrCounterNotFound
	}
	v++
	m.counters[id.String()] = v
	return v, nil
}

func (m *mockCounterRepo) Get(ctx context.Context, id domain.CounterID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	v, ok := m.counters[id.String()]
	if !ok {
		return 0, domain.ErrCounterNotFound
	}
	return v, nil
}

func (m *mockCounterRepo) Create(ctx context.Context, id domain.CounterID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return false, m.createErr
	}
	if _, ok := m.counters[id.String()]; ok {
		return false, nil
	}
	m.counters[id.String()] = 0
	return true, nil
}

func TestCounterService_Hit(t *testing.T) {
	ctx := context.Background()

	t.Run("increments existing counter", func(t *testing.T) {
		repo := newMockCounterRepo()
		repo.counters["lxze"] = 41
		svc := NewCounterService(repo)

		views, err := svc.Hit(ctx, "lxze")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if views != 42 {
			t.Errorf("expected 42, got %d", views)
		}
	})

	t.Run("returns ErrCounterNotFound for unknown key", func(t *testing.T) {
		svc := NewCounterService(newMockCounterRepo())

		_, err := svc.Hit(ctx, "ghost")
		if !errors.Is(err, domain.ErrCounterNotFound) {
			t.Errorf("expected ErrCounterNotFound, got %v", err)
		}
	})

	t.Run("auto-registers unknown key", func(t *testing.T) {
		repo := newMockCounterRepo()
		svc := NewCounterService(repo, WithAutoRegister(true))

		views, err := svc.Hit(ctx, "newcomer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if views != 1 {
			t.Errorf("expected 1, got %d", views)
		}
		if repo.counters["newcomer"] != 1 {
			t.Errorf("expected stored value 1, got %d", repo.counters["newcomer"])
		}
	})

	t.Run("auto-register create failure", func(t *testing.T) {
		repo := newMockCounterRepo()
		repo.createErr = errors.New("db down")
		svc := NewCounterService(repo, WithAutoRegister(true))

		if _, err := svc.Hit(ctx, "newcomer"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("rejects invalid key", func(t *testing.T) {
		svc := NewCounterService(newMockCounterRepo())

		_, err := svc.Hit(ctx, "a/b")
		if !errors.Is(err, domain.ErrInvalidCounterID) {
			t.Errorf("expected ErrInvalidCounterID, got %v", err)
		}
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		repo := newMockCounterRepo()
		dbErr := errors.New("db error")
		repo.incrErr = dbErr
		svc := NewCounterService(repo)

		_, err := svc.Hit(ctx, "lxze")
		if !errors.Is(err, dbErr) {
			t.Errorf("expected wrapped db error, got %v", err)
		}
	})

	t.Run("concurrent hits are all counted", func(t *testing.T) {
		repo := newMockCounterRepo()
		repo.counters["lxze"] = 0
		svc := NewCounterService(repo)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = svc.Hit(ctx, "lxze")
			}()
		}
		wg.Wait()

		if views, _ := svc.Peek(ctx, "lxze"); views != 50 {
			t.Errorf("expected 50, got %d", views)
		}
	})
}

func TestCounterService_Peek(t *testing.T) {
	ctx := context.Background()
	repo := newMockCounterRepo()
	repo.counters["lxze"] = 7
	svc := NewCounterService(repo)

	views, err := svc.Peek(ctx, "lxze")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views != 7 {
		t.Errorf("expected 7, got %d", views)
	}
	if repo.counters["lxze"] != 7 {
		t.Error("Peek must not change the counter")
	}

	if _, err := svc.Peek(ctx, "ghost"); !errors.Is(err, domain.ErrCounterNotFound) {
		t.Errorf("expected ErrCounterNotFound, got %v", err)
	}
	if _, err := svc.Peek(ctx, ""); !errors.Is(err, domain.ErrInvalidCounterID) {
		t.Errorf("expected ErrInvalidCounterID, got %v", err)
	}
}

func TestCounterService_Register(t *testing.T) {
	ctx := context.Background()
	repo := newMockCounterRepo()
	svc := NewCounterService(repo, WithLogger(nil))

	created, err := svc.Register(ctx, "lxze")
	if err != nil || !created {
		t.Fatalf("expected creation, got created=%v err=%v", created, err)
	}

	created, err = svc.Register(ctx, "lxze")
	if err != nil || created {
		t.Errorf("expected existing counter, got created=%v err=%v", created, err)
	}

	if _, err := svc.Register(ctx, "bad key"); !errors.Is(err, domain.ErrInvalidCounterID) {
		t.Errorf("expected ErrInvalidCounterID, got %v", err)
	}
}
