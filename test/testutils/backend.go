// Package testutils provides a stub recipe backend and test data factories
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alchemorsel/recipeweb/internal/infrastructure/http/gateway"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zaptest"
)

// RecordedRequest is a request the stub backend received
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Backend is an in-process stand-in for the recipe API. Routes are
// registered relative to /api.
type Backend struct {
	router *chi.Mux
	server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewBackend starts a stub backend that is closed when the test ends
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{router: chi.NewRouter()}
	b.router.Use(b.record)
	b.server = httptest.NewServer(b.router)
	t.Cleanup(b.server.Close)

	return b
}

// URL is the API base URL
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// Client returns a gateway pointed at the backend
func (b *Backend) Client(t *testing.T, opts ...gateway.Option) *gateway.Client {
	t.Helper()
	return gateway.New(gateway.Config{BaseURL: b.URL()}, zaptest.NewLogger(t), opts...)
}

// Handle registers a handler for method and pattern (chi syntax, e.g. /recipes/{id})
func (b *Backend) Handle(method, pattern string, h http.HandlerFunc) {
	b.router.Method(method, "/api"+pattern, h)
}

// JSON registers a route that always answers with status and body
func (b *Backend) JSON(method, pattern string, status int, body any) {
	b.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Requests returns what the backend received so far
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// LastRequest returns the most recent request or a zero value
func (b *Backend) LastRequest() RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}
	}
	return b.requests[len(b.requests)-1]
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes body as a JSON response
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
