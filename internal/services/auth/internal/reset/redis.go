package reset

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pwreset:"

var (
	ErrTokenNotFound = errors.New("reset token not found")
	ErrTokenExhaust  = errors.New("failed to generate unique reset token")
)

// Redis keeps password reset tokens as single-use keys mapping to a user uid.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb: rdb,
		ttl: cfg.TTL,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) CreateToken(ctx context.Context, uid string) (string, error) {
	for range 3 {
		tok := generateToken()
		ok, err := r.rdb.SetNX(ctx, keyPrefix+tok, uid, r.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store reset token: %w", err)
		}
		if ok {
			return tok, nil
		}
	}

	return "", ErrTokenExhaust
}

// Redeem returns the uid the token was issued for and invalidates the token.
func (r *Redis) Redeem(ctx context.Context, tok string) (string, error) {
	uid, err := r.rdb.GetDel(ctx, keyPrefix+tok).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}

		return "", fmt.Errorf("redeem reset token: %w", err)
	}

	return uid, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func generateToken() string {
	return base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))
}
