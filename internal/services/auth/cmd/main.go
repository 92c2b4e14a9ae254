package main

import (
	"context"
	"database/sql"
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
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/config"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/mail"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/password"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/reset"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/rest"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/service"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/store"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/token"
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
	slog.Info("starting auth service")

	pgCfg := store.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.Name,
	}

	if cfg.DB.AutoMigrate {
		if err := dbmigrate.Up(pgCfg.DSN(), cfg.DB.Migrations); err != nil {
			return fmt.Errorf("failed to migrate db: %w", err)
		}
	}

	db, err := store.NewPostgresDB(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer db.Close()

	resets := reset.NewRedis(reset.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Reset.TTL,
	})
	defer resets.Close()

	pgs := store.NewPostgresStore(db)
	hasher := password.NewBcrypt(cfg.BcryptCost)

	auth := service.NewAuth(
		service.WithStore(pgs),
		service.WithHasher(hasher),
		service.WithTokenIssuer(token.NewJWTIssuer(token.JwtConfig{
			Secret: token.NewSecretString(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.JWT.TTL,
		})),
		service.WithResetTokens(resets),
		service.WithMailer(newMailer(cfg)),
		service.WithResetURL(cfg.Reset.URL),
	)
	account := service.NewAccount(pgs, service.AccountConfig{Hasher: hasher})

	rt := router.New()
	rt.Use(middleware.Recover(), middleware.Log())
	rt.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rt.HandleFunc("GET /readyz", readyz(db, resets))

	api := rest.NewAPI(auth, account, rest.APIConfig{
		Verify:       middleware.HS256([]byte(cfg.JWT.Secret)),
		SecureCookie: cfg.HTTP.SecureCookie,
	})
	rt.SubRouter("/api/v1").Handle("/", api)

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

func newMailer(cfg config.Config) mail.Mailer {
	if cfg.Mail.SendGridKey == "" {
		slog.Warn("SENDGRID_API_KEY is not set, reset links will only be logged")
		return mail.NewLog(slog.Default())
	}

	return mail.NewSendGrid(mail.SendGridConfig{
		APIKey:   cfg.Mail.SendGridKey,
		Host:     cfg.Mail.SendGridHost,
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
	})
}

func readyz(db *sql.DB, rds *reset.Redis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Warn("db is not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		if err := rds.Ping(r.Context()); err != nil {
			slog.Warn("redis is not ready", "error", err)
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
		slog.Error("auth service terminated with error", "error", err)
		os.Exit(1)
	}
}
