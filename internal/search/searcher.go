package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"bookdiary/internal/book"
	"bookdiary/internal/platform/googlebooks"
)

// Client queries the remote catalog.
type Client interface {
	SearchVolumes(ctx context.Context, query string) ([]googlebooks.Volume, error)
}

// Searcher runs remote searches for one input where only the most recent
// search counts. Starting a search cancels the one in flight, and a search
// only publishes its results if no newer search or Clear happened meanwhile.
type Searcher struct {
	client  Client
	metrics *Metrics
	logger  *slog.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	query   string
	results []book.Book
}

func NewSearcher(client Client, metrics *Metrics, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{client: client, metrics: metrics, logger: logger, results: []book.Book{}}
}

// Search looks query up and returns the books found. applied is false when
// the search was superseded, in which case the results are nil. A failed
// lookup is logged and yields an empty result.
func (s *Searcher) Search(ctx context.Context, query string) (results []book.Book, applied bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.Clear()
		return []book.Book{}, true
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.query = query
	s.mu.Unlock()

	volumes, err := s.client.SearchVolumes(searchCtx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.metrics.observe(outcomeSuperseded)
		return nil, false
	}
	s.cancel = nil

	results = []book.Book{}
	if err != nil {
		s.metrics.observe(outcomeFailed)
		s.logger.WarnContext(ctx, "book search failed", "query", query, "error", err)
	} else {
		s.metrics.observe(outcomeApplied)
		for _, v := range volumes {
			results = append(results, book.FromVolume(v))
		}
	}
	s.results = results
	return results, true
}

// Results returns the query and results of the last applied search.
func (s *Searcher) Results() (string, []book.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, s.results
}

// Clear cancels any search in flight and forgets the last results.
func (s *Searcher) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.query = ""
	s.results = []book.Book{}
}

func (s *Searcher) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
