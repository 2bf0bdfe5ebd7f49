// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

import (
	"fmt"
	"regexp"
	"time"
)

// MaxCounterIDLength bounds counter keys so they fit in URLs and DB columns.
const MaxCounterIDLength = 64

// CounterID is a validated counter key, e.g. a GitHub username.
type CounterID string

var counterIDRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// NewCounterID creates and validates a CounterID.
func NewCounterID(id string) (CounterID, error) {
	if id == "" {
		return "", ErrInvalidCounterID
	}
	if len(id) > MaxCounterIDLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidCounterID, MaxCounterIDLength)
	}
	if !counterIDRegex.MatchString(id) {
		return "", fmt.Errorf("%w: only letters, digits, '.', '_' and '-' are allowed", ErrInvalidCounterID)
	}
	return CounterID(id), nil
}

// String returns the string representation.
func (id CounterID) String() string {
	return string(id)
}

// Counter is a named view counter.
type Counter struct {
	ID        CounterID
	Views     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCounter creates a counter starting at zero views.
func NewCounter(id string) (*Counter, error) {
	cid, err := NewCounterID(id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Counter{
		ID:        cid,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Hit records one view and returns the new total.
func (c *Counter) Hit() int64 {
	c.Views++
	c.UpdatedAt = time.Now().UTC()
	return c.Views
}
