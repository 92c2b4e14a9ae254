package reset

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	redisHost string
	redisPort string
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	resp, closeRedis := testdb.StartRedis(ctx)
	cancel()

	redisHost = resp.Host
	redisPort = resp.Port
	code := m.Run()
	closeRedis()
	os.Exit(code)
}

func newRedis(t *testing.T, ttl time.Duration) *Redis {
	t.Helper()

	rds := NewRedis(RedisConfig{
		Host: redisHost,
		Port: redisPort,
		TTL:  ttl,
	})
	t.Cleanup(func() { _ = rds.Close() })
	require.NoError(t, rds.Ping(t.Context()))
	return rds
}

func TestRedis_CreateAndRedeem(t *testing.T) {
	rds := newRedis(t, 30*time.Second)

	tok, err := rds.CreateToken(t.Context(), "user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	uid, err := rds.Redeem(t.Context(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestRedis_RedeemIsSingleUse(t *testing.T) {
	rds := newRedis(t, 30*time.Second)

	tok, err := rds.CreateToken(t.Context(), "user-123")
	require.NoError(t, err)

	_, err = rds.Redeem(t.Context(), tok)
	require.NoError(t, err)

	_, err = rds.Redeem(t.Context(), tok)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedis_Expires(t *testing.T) {
	rds := newRedis(t, time.Second)

	tok, err := rds.CreateToken(t.Context(), "user-123")
	require.NoError(t, err)

	time.Sleep(2 * time.Second)

	_, err = rds.Redeem(t.Context(), tok)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedis_UnknownToken(t *testing.T) {
	rds := newRedis(t, time.Minute)

	_, err := rds.Redeem(t.Context(), "never-issued")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
