package config

import (
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/env"
)

type Config struct {
	// JWTSecret verifies access tokens issued by the auth service.
	JWTSecret string
	HTTP      httpConfig
	DB        dbConfig
	Log       logConfig
}

type dbConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	MaxConns    int
	Migrations  string
	AutoMigrate bool
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type logConfig struct {
	Format string
	Level  string
}

func FromEnv() Config {
	return Config{
		JWTSecret: env.RequireString("JWT_SECRET"),
		DB: dbConfig{
			Host:        env.String("DB_HOST", "localhost"),
			Port:        env.String("DB_PORT", "5432"),
			User:        env.String("DB_USER", "postgres"),
			Password:    env.String("DB_PASSWORD", "password"),
			Name:        env.String("DB_NAME", "words_service"),
			MaxConns:    env.Int("DB_MAX_CONNS", 0),
			Migrations:  env.String("DB_MIGRATIONS", "db/migrations"),
			AutoMigrate: env.Bool("DB_AUTO_MIGRATE", false),
		},
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: logConfig{
			Format: env.String("LOG_FORMAT", "json"),
			Level:  env.String("LOG_LEVEL", "info"),
		},
	}
}
