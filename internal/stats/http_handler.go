package stats

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookdiary/internal/book"
	"bookdiary/internal/httpx"
)

const heartbeatInterval = 30 * time.Second

// BookFinder resolves the book a chart belongs to.
type BookFinder interface {
	Get(ctx context.Context, id string) (book.Book, error)
}

type HTTPHandler struct {
	svc    *Service
	books  BookFinder
	source Source
	logger *slog.Logger
}

func NewHTTPHandler(svc *Service, books BookFinder, source Source, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{svc: svc, books: books, source: source, logger: logger}
}

// Week handles GET /stats/week
func (h *HTTPHandler) Week(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.ThisWeek(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "weekly stats failed", "error", err)
		httpx.JSONInternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, totals, map[string]any{
		"week_start": WeekStart(h.svc.Now()),
	})
}

// Charts handles GET /books/{id}/charts
func (h *HTTPHandler) Charts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireBook(w, r)
	if !ok {
		return
	}
	charts, err := h.svc.BookCharts(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "book charts failed", "book_id", id, "error", err)
		httpx.JSONInternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, charts, nil)
}

// Stream handles GET /books/{id}/charts/stream. It sends a charts event
// with the current state and another one after every change to the book's
// sessions, until the client disconnects.
func (h *HTTPHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireBook(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	sub, err := h.source.Subscribe(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "subscribe to progress failed", "book_id", id, "error", err)
		httpx.JSONInternalError(w, r)
		return
	}
	defer sub.Cancel()

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	flusher, ok := httpx.StartSSE(w, r)
	if !ok {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	var eventID uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			eventID++
			if err := httpx.WriteSSEEvent(w, flusher, eventID, "heartbeat", map[string]any{}); err != nil {
				h.logger.DebugContext(ctx, "client disconnected during heartbeat", "error", err)
				return
			}
		case records, ok := <-sub.C:
			if !ok {
				return
			}
			eventID++
			if err := httpx.WriteSSEEvent(w, flusher, eventID, "charts", h.svc.Charts(id, records)); err != nil {
				h.logger.DebugContext(ctx, "client disconnected during event", "error", err)
				return
			}
		}
	}
}

func (h *HTTPHandler) requireBook(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id is required", nil)
		return "", false
	}
	if _, err := h.books.Get(r.Context(), id); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return "", false
		}
		h.logger.ErrorContext(r.Context(), "load book failed", "book_id", id, "error", err)
		httpx.JSONInternalError(w, r)
		return "", false
	}
	return id, true
}
