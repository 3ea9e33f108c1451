package main

import (
	"context"
	"net/http"
	"time"

	"bookdiary/internal/book"
	"bookdiary/internal/search"
	"bookdiary/internal/stats"
	"bookdiary/internal/tracker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	books   *book.HTTPHandler
	tracker *tracker.HTTPHandler
	stats   *stats.HTTPHandler
	search  *search.HTTPHandler
}

func newRouter(h handlers, db pinger, gatherer prometheus.Gatherer) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.HandleFunc("GET /books", h.books.List)
	router.HandleFunc("POST /books", h.books.Add)
	router.HandleFunc("POST /books/custom", h.books.AddCustom)
	router.HandleFunc("GET /books/{id}", h.books.Get)
	router.HandleFunc("DELETE /books/{id}", h.books.Delete)

	router.HandleFunc("POST /books/{id}/progress", h.tracker.LogProgress)
	router.HandleFunc("GET /books/{id}/progress", h.tracker.History)

	router.HandleFunc("GET /books/{id}/charts", h.stats.Charts)
	router.HandleFunc("GET /books/{id}/charts/stream", h.stats.Stream)
	router.HandleFunc("GET /stats/week", h.stats.Week)

	router.HandleFunc("GET /search", h.search.Search)
	router.HandleFunc("DELETE /search", h.search.Clear)

	return router
}
