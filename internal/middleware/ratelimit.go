// SPDX-License-Identifier: AGPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/btouchard/viewbadge/internal/config"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // Unix nano timestamp for thread-safe access
}

type bruteForceEntry struct {
	mu        sync.Mutex
	failures  int
	banExpiry time.Time
}

// RateLimiter applies per-client token buckets to badge and admin routes
// and bans clients that keep failing admin authentication.
type RateLimiter struct {
	config config.RateLimitConfig
	logger *slog.Logger

	badgeLimiters sync.Map // IP -> limiterEntry
	adminLimiters sync.Map // IP -> limiterEntry
	bruteForce    sync.Map // IP -> bruteForceEntry

	stopOnce    sync.Once
	stopCleanup chan struct{}
}

// NewRateLimiter starts the cleanup loop when limiting is enabled.
// A nil logger means slog.Default().
func NewRateLimiter(cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	rl := &RateLimiter{
		config:      cfg,
		logger:      logger.With("component", "ratelimit"),
		stopCleanup: make(chan struct{}),
	}

	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go rl.cleanupLoop()
	}

	return rl
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	threshold := time.Now().Add(-rl.config.CleanupInterval * 2).UnixNano()

	cleanupMap := func(m *sync.Map) int {
		count := 0
		m.Range(func(key, value any) bool {
			if entry, ok := value.(*limiterEntry); ok {
				if entry.lastSeen.Load() < threshold {
					m.Delete(key)
					count++
				}
			}
			return true
		})
		return count
	}

	badgeCount := cleanupMap(&rl.badgeLimiters)
	adminCount := cleanupMap(&rl.adminLimiters)

	bruteForceCount := 0
	now := time.Now()
	rl.bruteForce.Range(func(key, value any) bool {
		if bf, ok := value.(*bruteForceEntry); ok {
			bf.mu.Lock()
			expired := !bf.banExpiry.IsZero() && bf.banExpiry.Before(now)
			bf.mu.Unlock()
			if expired {
				rl.bruteForce.Delete(key)
				bruteForceCount++
			}
		}
		return true
	})

	total := badgeCount + adminCount + bruteForceCount
	if total > 0 {
		rl.logger.Debug("cleanup removed entries",
			"total", total, "badge", badgeCount, "admin", adminCount, "bruteforce", bruteForceCount)
	}
}

func (rl *RateLimiter) getLimiter(store *sync.Map, key string, cfg config.RateLimitRouteConfig) *rate.Limiter {
	nowNano := time.Now().UnixNano()

	if existing, ok := store.Load(key); ok {
		entry := existing.(*limiterEntry)
		entry.lastSeen.Store(nowNano)
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter: rate.NewLimiter(routeLimit(cfg), cfg.Burst),
	}
	entry.lastSeen.Store(nowNano)

	actual, _ := store.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

func routeLimit(cfg config.RateLimitRouteConfig) rate.Limit {
	if cfg.Period <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(cfg.Requests) / cfg.Period.Seconds())
}

// ClientIP returns the originating client address, honouring the first
// X-Forwarded-For hop and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			xff = xff[:idx]
		}
		xff = strings.TrimSpace(xff)
		if xff != "" {
			return xff
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeRateLimitHeaders(w http.ResponseWriter, limiter *rate.Limiter, cfg config.RateLimitRouteConfig) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))

	tokens := int(limiter.Tokens())
	if tokens < 0 {
		tokens = 0
	}
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(tokens))

	resetTime := time.Now().Add(cfg.Period).Unix()
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))
}

func writeTooManyRequests(w http.ResponseWriter, limiter *rate.Limiter, cfg config.RateLimitRouteConfig) {
	writeRateLimitHeaders(w, limiter, cfg)

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	retryAfter := int(delay.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
}

// BadgeMiddleware limits badge requests per client IP.
func (rl *RateLimiter) BadgeMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enabled {
			next(w, r)
			return
		}

		ip := ClientIP(r)
		limiter := rl.getLimiter(&rl.badgeLimiters, ip, rl.config.Badge)

		if !limiter.Allow() {
			rl.logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			writeTooManyRequests(w, limiter, rl.config.Badge)
			return
		}

		writeRateLimitHeaders(w, limiter, rl.config.Badge)
		next(w, r)
	}
}

// AdminMiddleware limits admin requests per client IP and bans clients
// after BruteForceThreshold 401/403 responses.
func (rl *RateLimiter) AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enabled {
			next(w, r)
			return
		}

		ip := ClientIP(r)

		if rl.isBanned(ip) {
			rl.logger.Warn("banned client attempted admin access", "ip", ip)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.config.BruteForceBan.Seconds())))
			http.Error(w, "Too Many Requests - Temporarily Banned", http.StatusTooManyRequests)
			return
		}

		limiter := rl.getLimiter(&rl.adminLimiters, ip, rl.config.Admin)

		if !limiter.Allow() {
			rl.logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			writeTooManyRequests(w, limiter, rl.config.Admin)
			return
		}

		writeRateLimitHeaders(w, limiter, rl.config.Admin)

		wrapped := newStatusRecorder(w)
		next(wrapped, r)

		if wrapped.status == http.StatusUnauthorized || wrapped.status == http.StatusForbidden {
			rl.recordAuthFailure(ip)
		}
	}
}

func (rl *RateLimiter) isBanned(ip string) bool {
	entry, ok := rl.bruteForce.Load(ip)
	if !ok {
		return false
	}
	bf := entry.(*bruteForceEntry)
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.banExpiry.IsZero() {
		return false
	}
	if time.Now().Before(bf.banExpiry) {
		return true
	}
	// Expired bans start a fresh count.
	bf.failures = 0
	bf.banExpiry = time.Time{}
	return false
}

func (rl *RateLimiter) recordAuthFailure(ip string) {
	entry, _ := rl.bruteForce.LoadOrStore(ip, &bruteForceEntry{})
	bf := entry.(*bruteForceEntry)

	bf.mu.Lock()
	defer bf.mu.Unlock()

	bf.failures++
	rl.logger.Debug("auth failure", "ip", ip, "failures", bf.failures, "threshold", rl.config.BruteForceThreshold)

	if bf.failures >= rl.config.BruteForceThreshold {
		bf.banExpiry = time.Now().Add(rl.config.BruteForceBan)
		rl.logger.Warn("client banned", "ip", ip, "duration", rl.config.BruteForceBan)
	}
}
