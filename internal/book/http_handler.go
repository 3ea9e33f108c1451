package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"bookdiary/internal/httpx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{service: service, logger: logger}
}

// View is a Book with its derived facts.
type View struct {
	Book
	Progress          float64 `json:"progress"`
	PublishingDetails string  `json:"publishing_details"`
}

func NewView(b Book) View {
	return View{Book: b, Progress: b.Progress(), PublishingDetails: b.PublishingDetails()}
}

// AddBookRequest is a catalog search result the reader chose to track.
type AddBookRequest struct {
	ID            string   `json:"id" validate:"required"`
	Title         string   `json:"title" validate:"required"`
	Subtitle      string   `json:"subtitle"`
	Description   string   `json:"description"`
	Authors       []string `json:"authors"`
	Categories    []string `json:"categories"`
	ISBN          []string `json:"isbn"`
	Thumbnail     string   `json:"thumbnail" validate:"omitempty,url"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	AverageRating float64  `json:"average_rating" validate:"gte=0,lte=5"`
	RatingsCount  int      `json:"ratings_count" validate:"gte=0"`
	PageCount     int      `json:"page_count" validate:"gte=0"`
}

func (req AddBookRequest) book() Book {
	return Book{
		ID:            req.ID,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Description:   req.Description,
		Authors:       req.Authors,
		Categories:    req.Categories,
		ISBN:          req.ISBN,
		Thumbnail:     req.Thumbnail,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		AverageRating: req.AverageRating,
		RatingsCount:  req.RatingsCount,
		PageCount:     req.PageCount,
		CurrentPage:   1,
	}
}

// AddCustomBookRequest is a book entered by hand.
type AddCustomBookRequest struct {
	Title         string   `json:"title" validate:"required,max=500"`
	Subtitle      string   `json:"subtitle"`
	Description   string   `json:"description"`
	Authors       []string `json:"authors" validate:"dive,required"`
	Categories    []string `json:"categories"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	PageCount     int      `json:"page_count" validate:"required,gt=0"`
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	after, err := DecodeCursor(query.Get("cursor"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid cursor", nil)
		return
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	books, err := h.service.List(r.Context(), ListQuery{Q: query.Get("q"), After: after, Limit: limit})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list books failed", "error", err)
		httpx.JSONInternalError(w, r)
		return
	}

	views := make([]View, 0, len(books))
	for _, b := range books {
		views = append(views, NewView(b))
	}
	meta := map[string]any{"limit": limit}
	if len(books) == limit {
		meta["next_cursor"] = EncodeCursor(CursorAfter(books[len(books)-1]))
	}
	httpx.JSONSuccess(w, r, views, meta)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id is required", nil)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewView(b), nil)
}

// Add handles POST /books
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddBookRequest
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.service.Add(r.Context(), req.book())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, NewView(b))
}

// AddCustom handles POST /books/custom
func (h *HTTPHandler) AddCustom(w http.ResponseWriter, r *http.Request) {
	var req AddCustomBookRequest
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.service.AddCustom(r.Context(), Book{
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Description:   req.Description,
		Authors:       req.Authors,
		Categories:    req.Categories,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		CurrentPage:   1,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, NewView(b))
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id is required", nil)
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrAlreadyExists):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Book is already in the library", nil)
	default:
		h.logger.ErrorContext(r.Context(), "book request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httpx.JSONInternalError(w, r)
	}
}
