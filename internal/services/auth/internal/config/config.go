package config

import (
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/env"
)

type Config struct {
	HTTP       httpConfig
	DB         dbConfig
	JWT        jwtConfig
	Redis      redisConfig
	Reset      resetConfig
	Mail       mailConfig
	Log        logConfig
	BcryptCost int
}

type httpConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	SecureCookie    bool
}

type dbConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	Migrations  string
	AutoMigrate bool
}

type jwtConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type redisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type resetConfig struct {
	TTL time.Duration
	URL string
}

type mailConfig struct {
	SendGridKey  string
	SendGridHost string
	From         string
	FromName     string
}

type logConfig struct {
	Format string
	Level  string
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			SecureCookie:    env.Bool("HTTP_SECURE_COOKIE", false),
		},
		DB: dbConfig{
			Host:        env.String("DB_HOST", "localhost"),
			Port:        env.String("DB_PORT", "5432"),
			User:        env.String("DB_USER", "postgres"),
			Password:    env.String("DB_PASSWORD", "password"),
			Name:        env.String("DB_NAME", "auth_service"),
			Migrations:  env.String("DB_MIGRATIONS", "db/migrations"),
			AutoMigrate: env.Bool("DB_AUTO_MIGRATE", false),
		},
		JWT: jwtConfig{
			Secret: env.RequireString("JWT_SECRET"),
			Issuer: env.String("JWT_ISSUER", "lexi-auth"),
			TTL:    env.Duration("JWT_TTL", 24*time.Hour),
		},
		Redis: redisConfig{
			Host:     env.String("REDIS_HOST", "localhost"),
			Port:     env.String("REDIS_PORT", "6379"),
			Password: env.String("REDIS_PASSWORD", ""),
			DB:       env.Int("REDIS_DB", 0),
		},
		Reset: resetConfig{
			TTL: env.Duration("RESET_TTL", 30*time.Minute),
			URL: env.String("RESET_URL", "http://localhost:3000/reset-password"),
		},
		Mail: mailConfig{
			SendGridKey:  env.String("SENDGRID_API_KEY", ""),
			SendGridHost: env.String("SENDGRID_HOST", ""),
			From:         env.String("MAIL_FROM", "noreply@lexi-cards.local"),
			FromName:     env.String("MAIL_FROM_NAME", "Lexi Cards"),
		},
		Log: logConfig{
			Format: env.String("LOG_FORMAT", "json"),
			Level:  env.String("LOG_LEVEL", "info"),
		},
		BcryptCost: env.Int("BCRYPT_COST", 12),
	}
}
