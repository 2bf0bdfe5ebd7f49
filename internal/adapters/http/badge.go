// SPDX-License-Identifier: AGPL-3.0-or-later

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/btouchard/viewbadge/internal/domain"
	"github.com/btouchard/viewbadge/internal/services/badge"
)

// autoColor picks the message color from the view count.
const autoColor = "auto"

// badgeQuery holds the optional badge query parameters.
type badgeQuery struct {
	label      string
	color      string
	labelColor string
	style      badge.Style
	compact    bool
}

func parseBadgeQuery(r *http.Request, defaultLabel string) (badgeQuery, error) {
	q := r.URL.Query()

	style, err := badge.ParseStyle(q.Get("style"))
	if err != nil {
		return badgeQuery{}, err
	}

	label := q.Get("label")
	if label == "" {
		label = defaultLabel
	}

	compact := false
	switch strings.ToLower(q.Get("compact")) {
	case "1", "true", "yes":
		compact = true
	}

	return badgeQuery{
		label:      label,
		color:      q.Get("color"),
		labelColor: q.Get("labelColor"),
		style:      style,
		compact:    compact,
	}, nil
}

// Root records a view on the default counter.
// GET /
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	h.serveCounterBadge(w, r, h.defaults.Counter, h.counters.Hit)
}

// Badge records a view and renders the new total.
// GET /badge/{key}
func (h *Handlers) Badge(w http.ResponseWriter, r *http.Request) {
	h.serveCounterBadge(w, r, r.PathValue("key"), h.counters.Hit)
}

// Peek renders the current total without recording a view.
// GET /badge/{key}/peek
func (h *Handlers) Peek(w http.ResponseWriter, r *http.Request) {
	h.serveCounterBadge(w, r, r.PathValue("key"), h.counters.Peek)
}

type viewsFunc func(ctx context.Context, key string) (int64, error)

func (h *Handlers) serveCounterBadge(w http.ResponseWriter, r *http.Request, key string, views viewsFunc) {
	q, err := parseBadgeQuery(r, h.defaults.Label)
	if err != nil {
		h.renderErrorBadge(w, http.StatusBadRequest, badge.Flat, "invalid style")
		return
	}

	count, err := views(r.Context(), key)
	switch {
	case errors.Is(err, domain.ErrInvalidCounterID):
		h.renderErrorBadge(w, http.StatusBadRequest, q.style, "invalid counter")
		return
	case errors.Is(err, domain.ErrCounterNotFound):
		h.renderErrorBadge(w, http.StatusNotFound, q.style, "not found")
		return
	case err != nil:
		h.logger.Error("failed to read counter", "counter", key, "error", err)
		h.renderErrorBadge(w, http.StatusInternalServerError, q.style, "error")
		return
	}

	color := q.color
	if strings.EqualFold(color, autoColor) {
		color = badge.GetViewsColor(count)
	}

	svg := badge.Render(badge.Request{
		Style:      q.style,
		Label:      q.label,
		Message:    badge.FormatViews(count, q.compact),
		Font:       h.font,
		FontFamily: h.defaults.FontFamily,
		LabelColor: q.labelColor,
		Color:      color,
	})
	h.renderSVGBadge(w, http.StatusOK, svg)
}

// renderSVGBadge writes an SVG badge to the response with proper headers.
// Badges must be revalidated so embedded counters keep moving.
func (h *Handlers) renderSVGBadge(w http.ResponseWriter, status int, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml;charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d, no-cache", h.defaults.CacheMaxAge))
	w.WriteHeader(status)
	_, _ = w.Write([]byte(svg))
}

func (h *Handlers) renderErrorBadge(w http.ResponseWriter, status int, style badge.Style, message string) {
	svg := badge.Render(badge.Request{
		Style:      style,
		Label:      "error",
		Message:    message,
		Font:       h.font,
		FontFamily: h.defaults.FontFamily,
		Color:      badge.ErrorColor,
	})
	h.renderSVGBadge(w, status, svg)
}
