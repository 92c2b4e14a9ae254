package config_test

import (
	"testing"
	"time"

	"github.com/gamma-omg/lexi-cards/internal/services/gateway/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("HTTP_LISTEN_ADDR", ":9000")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("AUTH_URL", "http://auth:8080")
	t.Setenv("WORDS_URL", "http://words:8080")
	t.Setenv("UPSTREAM_PROBE_TIMEOUT", "500ms")
	t.Setenv("LOG_FORMAT", "text")

	cfg := config.FromEnv()

	assert.Equal(t, ":9000", cfg.HTTP.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "http://auth:8080", cfg.Upstreams.AuthURL)
	assert.Equal(t, "http://words:8080", cfg.Upstreams.WordsURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Upstreams.ProbeTimeout)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromEnv_MissingUpstream(t *testing.T) {
	t.Setenv("AUTH_URL", "http://auth:8080")
	t.Setenv("WORDS_URL", "")

	assert.Panics(t, func() { config.FromEnv() })
}
