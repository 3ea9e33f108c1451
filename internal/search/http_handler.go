package search

import (
	"net/http"

	"bookdiary/internal/httpx"
)

type HTTPHandler struct {
	registry *Registry
}

func NewHTTPHandler(registry *Registry) *HTTPHandler {
	return &HTTPHandler{registry: registry}
}

// Search handles GET /search?q=&field=
//
// A search superseded by a newer one on the same field answers with
// meta.superseded=true and no data.
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	field := query.Get("field")
	q := query.Get("q")

	results, applied := h.registry.For(field).Search(r.Context(), q)
	if !applied {
		httpx.JSONSuccess(w, r, nil, map[string]any{"superseded": true, "query": q})
		return
	}
	httpx.JSONSuccess(w, r, results, map[string]any{
		"superseded": false,
		"query":      q,
		"total":      len(results),
	})
}

// Clear handles DELETE /search?field=
func (h *HTTPHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.registry.Clear(r.URL.Query().Get("field"))
	httpx.JSONSuccessNoContent(w)
}
