package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gamma-omg/lexi-cards/internal/pkg/router"
	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	tbl := []struct {
		pattern string
		method  string
		path    string
		status  int
	}{
		{"/hello", "GET", "/hello", http.StatusOK},
		{"hello", "GET", "/hello", http.StatusOK},
		{"GET /hello", "GET", "/hello", http.StatusOK},
		{"GET hello", "GET", "/hello", http.StatusOK},
		{"GET /hello", "POST", "/hello", http.StatusMethodNotAllowed},
		{"POST /flashcards/{card_id}/resolve", "POST", "/flashcards/2-0/resolve", http.StatusOK},
		{"/hello", "GET", "/missing", http.StatusNotFound},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			r := router.New()
			r.Handle(c.pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))

			assert.Equal(t, c.status, rec.Code)
		})
	}
}

func TestHandleFunc_PathValue(t *testing.T) {
	r := router.New()
	r.HandleFunc("GET /vocabulary/{row_id}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.PathValue("row_id"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/vocabulary/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
}

func TestSubRouter(t *testing.T) {
	tbl := []struct {
		mountPoint   string
		relativePath string
		path         string
		status       int
	}{
		{"/api", "/hello", "/api/hello", http.StatusOK},
		{"v1", "/hello/", "/v1/hello/world", http.StatusOK},
		{"/api/v1/", "GET /users/me", "/api/v1/users/me", http.StatusOK},
		{"/api", "/hello", "/hello", http.StatusNotFound},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			r := router.New()
			sub := r.SubRouter(c.mountPoint)

			sub.HandleFunc(c.relativePath, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "hello from subrouter")
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest("GET", c.path, nil))

			assert.Equal(t, c.status, rec.Code)
		})
	}
}

func TestSubRouter_PanicsWhenEmpty(t *testing.T) {
	r := router.New()
	assert.Panics(t, func() {
		r.SubRouter("")
	})
	assert.Panics(t, func() {
		r.SubRouter("/")
	})
}

func TestSubRouter_ParentMiddlewareRunsOnce(t *testing.T) {
	r := router.New()

	calls := 0
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			next.ServeHTTP(w, r)
		})
	})

	sub := r.SubRouter("/api")
	sub.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestMiddleware(t *testing.T) {
	r := router.New()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom-Header", "value-123")
			next.ServeHTTP(w, r)
		})
	})

	r.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "testing middleware")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "testing middleware", rec.Body.String())
	assert.Equal(t, "value-123", rec.Header().Get("X-Custom-Header"))
}

func TestWith_Order(t *testing.T) {
	var order strings.Builder
	mark := func(s string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order.WriteString(s)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := router.With(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order.WriteString("h")
	}), mark("1"), mark("2"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "12h", order.String())
}
