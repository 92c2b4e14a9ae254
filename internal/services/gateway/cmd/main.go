package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/env"
	"github.com/gamma-omg/lexi-cards/internal/pkg/logging"
	"github.com/gamma-omg/lexi-cards/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-cards/internal/pkg/router"
	"github.com/gamma-omg/lexi-cards/internal/services/gateway/internal/config"
	"github.com/gamma-omg/lexi-cards/internal/services/gateway/internal/proxy"
)

func run(ctx context.Context) error {
	if err := env.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := config.FromEnv()
	slog.SetDefault(logging.New(os.Stdout, logging.Config{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
	}))
	slog.Info("starting api gateway")

	auth, err := proxy.NewUpstream("auth", "/auth", cfg.Upstreams.AuthURL)
	if err != nil {
		return err
	}
	words, err := proxy.NewUpstream("words", "/words", cfg.Upstreams.WordsURL)
	if err != nil {
		return err
	}
	upstreams := []*proxy.Upstream{auth, words}

	rt := router.New()
	rt.Use(middleware.Recover(), middleware.Log())
	rt.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rt.HandleFunc("GET /readyz", readyz(upstreams, cfg.Upstreams.ProbeTimeout))
	for _, up := range upstreams {
		rt.SubRouter(up.Prefix).Handle("/", up)
	}

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      rt,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func readyz(upstreams []*proxy.Upstream, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, up := range upstreams {
			if err := up.Ready(r.Context(), http.DefaultClient, timeout); err != nil {
				slog.Warn("upstream is not ready", "upstream", up.Name, "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("api gateway terminated with error", "error", err)
		os.Exit(1)
	}
}
