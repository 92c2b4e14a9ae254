package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
)

const maxBodyBytes = 1 << 20

// statusByKind is the single place where service error kinds become HTTP statuses.
var statusByKind = map[serr.Kind]int{
	serr.Invalid:             http.StatusBadRequest,
	serr.MalformedIdentifier: http.StatusBadRequest,
	serr.InvalidCredentials:  http.StatusUnauthorized,
	serr.NotFound:            http.StatusNotFound,
	serr.Conflict:            http.StatusConflict,
}

func StatusOf(k serr.Kind) int {
	if status, ok := statusByKind[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ReadJSON decodes the request body into out. Unknown fields are rejected and
// any failure is reported as an Invalid service error.
func ReadJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return serr.NewServiceError(fmt.Errorf("decode json: %w", err), serr.Invalid, "invalid request body")
	}

	return nil
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

func HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	}

	var se *serr.ServiceError
	if !errors.As(err, &se) {
		slog.Error("request error", attrs...)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	attrs = append(attrs, "kind", se.Kind.String())
	for k, v := range se.Env {
		attrs = append(attrs, k, v)
	}

	status := StatusOf(se.Kind)
	if status == http.StatusInternalServerError {
		slog.Error("request error", append(attrs, "stack_trace", se.StackTrace)...)
		http.Error(w, "Internal Server Error", status)
		return
	}

	slog.Warn("request error", attrs...)
	_ = WriteJSON(w, status, errorResponse{Error: se.Msg})
}
