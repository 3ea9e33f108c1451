package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookdiary/internal/book"
	"bookdiary/internal/search"
	"bookdiary/internal/stats"
	"bookdiary/internal/tracker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testRouter(db pinger) *http.ServeMux {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "bookdiary_test_total", Help: "test"}))
	return newRouter(handlers{
		books:   book.NewHTTPHandler(nil, nil),
		tracker: tracker.NewHTTPHandler(nil, nil, nil),
		stats:   stats.NewHTTPHandler(nil, nil, nil, nil),
		search:  search.NewHTTPHandler(nil),
	}, db, reg)
}

func TestRouter_Health(t *testing.T) {
	router := testRouter(fakePinger{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_NotReady(t *testing.T) {
	router := testRouter(fakePinger{err: errors.New("down")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(fakePinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookdiary_test_total")
}

func TestRouter_Patterns(t *testing.T) {
	router := testRouter(fakePinger{})

	tests := []struct {
		method, path string
		want         string
	}{
		{http.MethodGet, "/books", "GET /books"},
		{http.MethodPost, "/books", "POST /books"},
		{http.MethodPost, "/books/custom", "POST /books/custom"},
		{http.MethodGet, "/books/abc", "GET /books/{id}"},
		{http.MethodDelete, "/books/abc", "DELETE /books/{id}"},
		{http.MethodPost, "/books/abc/progress", "POST /books/{id}/progress"},
		{http.MethodGet, "/books/abc/progress", "GET /books/{id}/progress"},
		{http.MethodGet, "/books/abc/charts", "GET /books/{id}/charts"},
		{http.MethodGet, "/books/abc/charts/stream", "GET /books/{id}/charts/stream"},
		{http.MethodGet, "/books/Dune%20Frank%20Herbert412/charts", "GET /books/{id}/charts"},
		{http.MethodGet, "/stats/week", "GET /stats/week"},
		{http.MethodGet, "/search", "GET /search"},
		{http.MethodDelete, "/search", "DELETE /search"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			_, pattern := router.Handler(httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, pattern)
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(fakePinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/stats/week", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
