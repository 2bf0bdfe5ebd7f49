// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

import "errors"

// Sentinel errors for the domain layer.
// Use errors.Is() to check for these errors.
// Wrap with fmt.Errorf("context: %w", ErrXxx) to add context.

var (
	// Counter errors
	ErrCounterNotFound  = errors.New("counter not found")
	ErrInvalidCounterID = errors.New("invalid counter ID")
)
