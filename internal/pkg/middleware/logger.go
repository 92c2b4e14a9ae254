package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/router"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions. An incoming
// value is kept so ids survive the gateway hop.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// responseRecorder remembers what the handler sent so it can be logged.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rr *responseRecorder) WriteHeader(status int) {
	if rr.status == 0 {
		rr.status = status
	}
	rr.ResponseWriter.WriteHeader(status)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.status == 0 {
		rr.status = http.StatusOK
	}
	n, err := rr.ResponseWriter.Write(b)
	rr.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rr *responseRecorder) Unwrap() http.ResponseWriter {
	return rr.ResponseWriter
}

func Log() router.Middleware {
	return LogWith(slog.Default())
}

// LogWith writes one record per request. Server errors are logged at error
// level, client errors at warn.
func LogWith(l *slog.Logger) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
				r.Header.Set(RequestIDHeader, reqID)
			}
			w.Header().Set(RequestIDHeader, reqID)

			rec := &responseRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID)))
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			l.Log(r.Context(), levelFor(rec.status), "request received",
				"request_id", reqID,
				"duration", time.Since(start),
				"method", r.Method,
				"url", r.URL.String(),
				"ip", r.RemoteAddr,
				"status", rec.status,
				"bytes", rec.bytes,
				"agent", r.UserAgent())
		})
	}
}

// RequestIDFromContext returns the id assigned by LogWith, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
