// SPDX-License-Identifier: AGPL-3.0-or-later

package http

import (
	"log/slog"
	"net/http"

	"github.com/btouchard/viewbadge/internal/app"
	"github.com/btouchard/viewbadge/internal/middleware"
	"github.com/btouchard/viewbadge/internal/services/badge"
)

// RouterConfig holds the configuration for creating a new router.
type RouterConfig struct {
	Counters    *app.CounterService
	Font        *badge.Font
	Defaults    BadgeDefaults
	RateLimiter *middleware.RateLimiter // optional
	AdminToken  string                  // empty disables the admin API
	Logger      *slog.Logger
}

// NewRouter creates a fully wired HTTP router with all handlers and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handlers := NewHandlers(cfg.Counters, cfg.Font, cfg.Defaults, logger)
	guard := routeGuards{
		limiter:    cfg.RateLimiter,
		adminToken: cfg.AdminToken,
		logger:     logger,
	}

	mux := http.NewServeMux()

	// Health check (no auth, no rate limit)
	mux.HandleFunc("GET /api/v1/healthcheck", handlers.Healthcheck)

	// Badges
	mux.HandleFunc("GET /{$}", guard.badge(handlers.Root))
	mux.HandleFunc("GET /badge/{key}", guard.badge(handlers.Badge))
	mux.HandleFunc("GET /badge/{key}/peek", guard.badge(handlers.Peek))

	// JSON API
	mux.HandleFunc("GET /api/v1/counters/{key}", guard.badge(handlers.CounterJSON))
	mux.HandleFunc("POST /api/v1/admin/counters/{key}", guard.admin(handlers.AdminRegister))

	return middleware.RequestID(middleware.AccessLog(logger, mux))
}
