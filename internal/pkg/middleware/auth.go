package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gamma-omg/lexi-cards/internal/pkg/router"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie the auth service sets on login.
const TokenCookie = "access_token"

var ErrNoSubject = errors.New("token has no subject")

// TokenVerifier checks a raw token and returns the user id it was issued for.
type TokenVerifier func(raw string) (string, error)

type ctxKey struct{}

var userIDKey ctxKey

// HS256 returns a verifier for HMAC-SHA256 signed JWTs carrying the user id in "sub".
func HS256(secret []byte) TokenVerifier {
	return func(raw string) (string, error) {
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return "", err
		}

		sub, err := token.Claims.GetSubject()
		if err != nil {
			return "", err
		}
		if sub == "" {
			return "", ErrNoSubject
		}

		return sub, nil
	}
}

func Auth(verify TokenVerifier) router.Middleware {
	return func(next http.Handler) http.Handler {
		return authMiddleware(next, verify)
	}
}

func authMiddleware(next http.Handler, verify TokenVerifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken := tokenFromRequest(r)
		if rawToken == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		uid, err := verify(rawToken)
		if err != nil {
			authError("failed to verify token", w, r, err)
			return
		}

		ctx := WithUserID(r.Context(), uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}

	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}

	return ""
}

func authError(msg string, w http.ResponseWriter, r *http.Request, err error) {
	slog.Warn(msg,
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}
