// SPDX-License-Identifier: AGPL-3.0-or-later

// Package http provides HTTP handlers that delegate to application services.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/btouchard/viewbadge/internal/app"
	"github.com/btouchard/viewbadge/internal/domain"
	"github.com/btouchard/viewbadge/internal/services/badge"
	"github.com/btouchard/viewbadge/pkg/api"
)

// BadgeDefaults are the values used when a badge request leaves them out.
type BadgeDefaults struct {
	// Counter is the key served at "/".
	Counter    string
	Label      string
	FontFamily string
	// CacheMaxAge is the max-age, in seconds, sent with badges.
	CacheMaxAge int
}

// Handlers holds HTTP handlers and their dependencies.
type Handlers struct {
	counters *app.CounterService
	font     *badge.Font
	defaults BadgeDefaults
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers. The font is only used for measuring.
func NewHandlers(counters *app.CounterService, font *badge.Font, defaults BadgeDefaults, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.Label == "" {
		defaults.Label = "Profile views"
	}
	return &Handlers{
		counters: counters,
		font:     font,
		defaults: defaults,
		logger:   logger,
	}
}

// Healthcheck returns a simple health status.
func (h *Handlers) Healthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.GenericResponse{Status: "ok"})
}

// CounterJSON returns the current total of a counter without recording a view.
// GET /api/v1/counters/{key}
func (h *Handlers) CounterJSON(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	views, err := h.counters.Peek(r.Context(), key)
	if err != nil {
		h.writeCounterError(w, key, err)
		return
	}

	writeJSON(w, http.StatusOK, api.CounterResponse{ID: key, Views: views})
}

// AdminRegister creates a counter.
// POST /api/v1/admin/counters/{key}
func (h *Handlers) AdminRegister(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	created, err := h.counters.Register(r.Context(), key)
	if err != nil {
		h.writeCounterError(w, key, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, api.RegisterResponse{ID: key, Created: created})
}

func (h *Handlers) writeCounterError(w http.ResponseWriter, key string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCounterID):
		writeJSON(w, http.StatusBadRequest, api.GenericResponse{Status: "error", Message: "invalid counter id"})
	case errors.Is(err, domain.ErrCounterNotFound):
		writeJSON(w, http.StatusNotFound, api.GenericResponse{Status: "error", Message: "counter not found"})
	default:
		h.logger.Error("counter operation failed", "counter", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, api.GenericResponse{Status: "error", Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
