package tracker

import (
	"errors"
	"log/slog"
	"net/http"

	"bookdiary/internal/book"
	"bookdiary/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	books  Books
	logger *slog.Logger
}

func NewHTTPHandler(svc *Service, books Books, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{svc: svc, books: books, logger: logger}
}

type LogProgressRequest struct {
	CurrentPage int `json:"current_page" validate:"gte=0"`
	PageCount   int `json:"page_count" validate:"gte=0"`
	Minutes     int `json:"minutes" validate:"gte=0"`
}

// LogProgress handles POST /books/{id}/progress
//
// The requested page is clamped to the book's page range, using page_count
// when the request corrects it.
func (h *HTTPHandler) LogProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id is required", nil)
		return
	}

	var req LogProgressRequest
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.books.Get(r.Context(), id)
	if err != nil {
		h.writeBookError(w, r, id, err)
		return
	}

	pageCount := b.PageCount
	if req.PageCount > 0 {
		pageCount = req.PageCount
	}
	if pageCount <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", []httpx.ErrorDetail{
			{Field: "page_count", Message: "page_count is required while the book has no page count"},
		})
		return
	}

	res, err := h.svc.LogProgress(r.Context(), Entry{
		BookID:      id,
		CurrentPage: book.ClampPage(req.CurrentPage, pageCount),
		PageCount:   req.PageCount,
		Minutes:     req.Minutes,
	})
	if err != nil {
		if errors.Is(err, ErrBookNotUpdated) {
			httpx.JSONError(w, r, http.StatusInternalServerError, "BOOK_NOT_UPDATED",
				"Progress was recorded but the book could not be updated", nil)
			return
		}
		h.writeBookError(w, r, id, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, res)
}

// History handles GET /books/{id}/progress
func (h *HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id is required", nil)
		return
	}

	records, err := h.svc.History(r.Context(), id)
	if err != nil {
		h.writeBookError(w, r, id, err)
		return
	}
	httpx.JSONSuccess(w, r, records, map[string]any{"total": len(records)})
}

func (h *HTTPHandler) writeBookError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, book.ErrNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}
	h.logger.ErrorContext(r.Context(), "progress request failed", "book_id", id, "error", err)
	httpx.JSONInternalError(w, r)
}
