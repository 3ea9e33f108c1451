package search

import (
	"log/slog"
	"sync"
)

// DefaultField is used when a caller does not name its input field.
const DefaultField = "default"

const maxFields = 1024

// Registry keeps one Searcher per input field, so searches typed into
// different fields do not cancel each other.
type Registry struct {
	client  Client
	metrics *Metrics
	logger  *slog.Logger

	mu        sync.Mutex
	clock     uint64
	searchers map[string]*registered
}

type registered struct {
	searcher *Searcher
	lastUsed uint64
}

func NewRegistry(client Client, metrics *Metrics, logger *slog.Logger) *Registry {
	return &Registry{
		client:    client,
		metrics:   metrics,
		logger:    logger,
		searchers: make(map[string]*registered),
	}
}

// For returns the Searcher of field, creating it on first use. When the
// registry is full, the least recently used idle searcher makes room. If
// every searcher is busy the registry grows past its limit.
func (r *Registry) For(field string) *Searcher {
	if field == "" {
		field = DefaultField
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock++
	if e, ok := r.searchers[field]; ok {
		e.lastUsed = r.clock
		return e.searcher
	}
	if len(r.searchers) >= maxFields {
		r.evictOne()
	}
	s := NewSearcher(r.client, r.metrics, r.logger)
	r.searchers[field] = &registered{searcher: s, lastUsed: r.clock}
	return s
}

// evictOne drops the least recently used idle searcher. r.mu must be held.
func (r *Registry) evictOne() {
	var (
		victim string
		oldest uint64
		found  bool
	)
	for field, e := range r.searchers {
		if e.searcher.busy() {
			continue
		}
		if !found || e.lastUsed < oldest {
			victim, oldest, found = field, e.lastUsed, true
		}
	}
	if found {
		delete(r.searchers, victim)
	}
}

// Clear resets the searcher of field if it exists.
func (r *Registry) Clear(field string) {
	if field == "" {
		field = DefaultField
	}
	r.mu.Lock()
	e, ok := r.searchers[field]
	r.mu.Unlock()
	if ok {
		e.searcher.Clear()
	}
}
