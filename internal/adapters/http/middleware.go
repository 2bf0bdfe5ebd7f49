// SPDX-License-Identifier: AGPL-3.0-or-later

package http

import (
	"log/slog"
	"net/http"

	"github.com/btouchard/viewbadge/internal/middleware"
)

// routeGuards wraps handlers with the rate limiter and admin authentication.
// A nil limiter leaves routes unlimited.
type routeGuards struct {
	limiter    *middleware.RateLimiter
	adminToken string
	logger     *slog.Logger
}

func (g routeGuards) badge(next http.HandlerFunc) http.HandlerFunc {
	if g.limiter == nil {
		return next
	}
	return g.limiter.BadgeMiddleware(next)
}

func (g routeGuards) admin(next http.HandlerFunc) http.HandlerFunc {
	authed := middleware.BearerAuth(g.adminToken, g.logger, next)
	if g.limiter == nil {
		return authed
	}
	return g.limiter.AdminMiddleware(authed)
}
