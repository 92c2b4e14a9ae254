package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Request describes a JSON request sent straight to a handler.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// SendRequest encodes r.Body as JSON (when non-nil) and serves it with h.
func SendRequest(t testing.TB, h http.Handler, r Request) *httptest.ResponseRecorder {
	t.Helper()

	var body strings.Builder
	if r.Body != nil {
		err := json.NewEncoder(&body).Encode(r.Body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(r.Method, r.Path, strings.NewReader(body.String()))
	for k, vals := range r.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func ParseResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	dec := json.NewDecoder(rec.Body)
	var resp T
	err := dec.Decode(&resp)
	require.NoError(t, err)

	return resp
}

func WaitFor(t testing.TB, ctx context.Context, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}
