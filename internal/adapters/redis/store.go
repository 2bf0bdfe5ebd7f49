// SPDX-License-Identifier: AGPL-3.0-or-later

// Package redis provides a Redis implementation of the counter repository.
// Counters are plain integer keys, so INCR gives atomic increments.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/btouchard/viewbadge/internal/domain"
)

// DefaultKeyPrefix namespaces counter keys.
const DefaultKeyPrefix = "viewbadge:counter:"

// incrementIfExists only bumps counters that were created beforehand.
var incrementIfExists = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCR", KEYS[1])
end
return false
`)

// Store wraps a Redis client.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// NewStore connects to the Redis server described by url (redis://...).
func NewStore(ctx context.Context, url string) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client, prefix: DefaultKeyPrefix}, nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// CounterRepository returns a CounterRepository backed by this store.
func (s *Store) CounterRepository() *CounterRepository {
	return &CounterRepository{client: s.client, prefix: s.prefix}
}

// CounterRepository implements ports.CounterRepository for Redis.
type CounterRepository struct {
	client goredis.UniversalClient
	prefix string
}

func (r *CounterRepository) key(id domain.CounterID) string {
	return r.prefix + id.String()
}

// Increment atomically adds one view to an existing counter.
func (r *CounterRepository) Increment(ctx context.Context, id domain.CounterID) (int64, error) {
	views, err := incrementIfExists.Run(ctx, r.client, []string{r.key(id)}).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, domain.ErrCounterNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", id, err)
	}
	return views, nil
}

// Get returns the current total.
func (r *CounterRepository) Get(ctx context.Context, id domain.CounterID) (int64, error) {
	views, err := r.client.Get(ctx, r.key(id)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, domain.ErrCounterNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get counter %s: %w", id, err)
	}
	return views, nil
}

// Create sets the counter to zero unless it already exists.
func (r *CounterRepository) Create(ctx context.Context, id domain.CounterID) (bool, error) {
	created, err := r.client.SetNX(ctx, r.key(id), 0, 0).Result()
	if err != nil {
		return false, fmt.Errorf("create counter %s: %w", id, err)
	}
	return created, nil
}
