// Package app wires the stores and services shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"bookdiary/internal/book"
	"bookdiary/internal/config"
	"bookdiary/internal/platform/googlebooks"
	"bookdiary/internal/platform/postgres"
	"bookdiary/internal/progress"
	"bookdiary/internal/search"
	"bookdiary/internal/stats"
	"bookdiary/internal/tracker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	DB       *pgxpool.Pool
	Feed     *progress.Feed
	Books    *book.Service
	Tracker  *tracker.Service
	Stats    *stats.Service
	Searches *search.Registry
	Catalog  *googlebooks.Client
}

// New connects to the database and builds every service. Writes to reading
// sessions go through the Feed so live chart subscribers see them.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("%w (dsn %s)", err, cfg.RedactedDSN())
	}
	logger.Info("database connection OK", "dsn", cfg.RedactedDSN())

	feed := progress.NewFeed(progress.NewPostgresRepo(db, cfg.DBTimeout), logger)
	books := book.NewService(book.NewPostgresRepo(db, cfg.DBTimeout), feed)
	catalog := googlebooks.NewClient(googlebooks.Options{
		BaseURL:    cfg.GoogleBooksURL,
		APIKey:     cfg.GoogleBooksAPIKey,
		UserAgent:  cfg.GoogleBooksUserAgent,
		RPS:        cfg.GoogleBooksRPS,
		MaxRetries: cfg.GoogleBooksMaxRetries,
		Timeout:    cfg.GoogleBooksTimeout,
	})

	return &App{
		DB:       db,
		Feed:     feed,
		Books:    books,
		Tracker:  tracker.NewService(books, feed, tracker.NewMetrics(reg), logger),
		Stats:    stats.NewService(feed, feed, cfg.Location),
		Searches: search.NewRegistry(catalog, search.NewMetrics(reg), logger),
		Catalog:  catalog,
	}, nil
}

// Close ends live subscriptions and releases the pool.
func (a *App) Close() {
	a.Feed.Close()
	a.DB.Close()
}
