package config

import (
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/env"
)

type Config struct {
	HTTP      httpConfig
	Upstreams upstreamsConfig
	Log       logConfig
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type upstreamsConfig struct {
	AuthURL  string
	WordsURL string
	// ProbeTimeout bounds each upstream /readyz call.
	ProbeTimeout time.Duration
}

type logConfig struct {
	Format string
	Level  string
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upstreams: upstreamsConfig{
			AuthURL:      env.RequireString("AUTH_URL"),
			WordsURL:     env.RequireString("WORDS_URL"),
			ProbeTimeout: env.Duration("UPSTREAM_PROBE_TIMEOUT", 2*time.Second),
		},
		Log: logConfig{
			Format: env.String("LOG_FORMAT", "json"),
			Level:  env.String("LOG_LEVEL", "info"),
		},
	}
}
