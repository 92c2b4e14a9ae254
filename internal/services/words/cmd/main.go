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

	"github.com/gamma-omg/lexi-cards/internal/pkg/dbmigrate"
	"github.com/gamma-omg/lexi-cards/internal/pkg/env"
	"github.com/gamma-omg/lexi-cards/internal/pkg/logging"
	"github.com/gamma-omg/lexi-cards/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-cards/internal/pkg/router"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/config"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/rest"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/service"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
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
	slog.Info("starting words service")

	pgCfg := store.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.Name,
		MaxConns: int32(cfg.DB.MaxConns),
	}

	if cfg.DB.AutoMigrate {
		if err := dbmigrate.Up(pgCfg.DSN(), cfg.DB.Migrations); err != nil {
			return fmt.Errorf("failed to migrate db: %w", err)
		}
	}

	pool, err := store.NewPostgresPool(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer pool.Close()

	cards := service.NewFlashcards(store.NewPostgresStore(pool))

	rt := router.New()
	rt.Use(middleware.Recover(), middleware.Log())
	rt.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rt.HandleFunc("GET /readyz", readyz(pool))
	rt.SubRouter("/api/v1").Handle("/", rest.NewAPI(cards, middleware.HS256([]byte(cfg.JWTSecret))))

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

func readyz(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			slog.Warn("db is not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("words service terminated with error", "error", err)
		os.Exit(1)
	}
}
