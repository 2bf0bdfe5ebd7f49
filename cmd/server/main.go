// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/btouchard/viewbadge/internal/adapters/http"
	"github.com/btouchard/viewbadge/internal/app"
	"github.com/btouchard/viewbadge/internal/config"
	"github.com/btouchard/viewbadge/internal/fonts"
	"github.com/btouchard/viewbadge/internal/middleware"
	"github.com/btouchard/viewbadge/internal/store"
	"github.com/btouchard/viewbadge/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	font, err := fonts.LoadOrEmbedded(cfg.FontPath, logger.Component(log, "fonts"))
	if err != nil {
		return err
	}

	backend, err := store.Open(ctx, cfg.DatabaseURL, logger.Component(log, "store"))
	if err != nil {
		return err
	}
	defer backend.Close()
	log.Info("counter store ready", "backend", backend.Kind)

	counters := app.NewCounterService(backend.Counters,
		app.WithAutoRegister(cfg.AutoRegister),
		app.WithLogger(logger.Component(log, "counters")),
	)

	rl := middleware.NewRateLimiter(cfg.RateLimit, log)
	defer rl.Stop()

	if cfg.AdminToken == "" {
		log.Warn("admin token not set, admin API disabled")
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpadapter.NewRouter(httpadapter.RouterConfig{
			Counters: counters,
			Font:     font,
			Defaults: httpadapter.BadgeDefaults{
				Counter:     cfg.DefaultCounter,
				Label:       cfg.DefaultLabel,
				FontFamily:  cfg.FontFamily,
				CacheMaxAge: cfg.CacheMaxAge,
			},
			RateLimiter: rl,
			AdminToken:  cfg.AdminToken,
			Logger:      logger.Component(log, "http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("viewbadge listening",
			"addr", srv.Addr,
			"default_counter", cfg.DefaultCounter,
			"ratelimit", cfg.RateLimit.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
