package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/googlebooks"
)

// BookSearcher is the external catalog the browse page queries.
type BookSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]googlebooks.Book, error)
}

type CatalogHandler struct {
	searcher BookSearcher
}

func NewCatalogHandler(searcher BookSearcher) *CatalogHandler {
	return &CatalogHandler{searcher: searcher}
}

// defaultSearchTerm fills the catalog on first load, before the user
// has typed anything.
const defaultSearchTerm = "romance"

// Search handles GET /catalog/search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	term := strings.TrimSpace(query.Get("q"))
	if term == "" {
		term = defaultSearchTerm
	}

	limit := googlebooks.MaxResults
	if limitStr := query.Get("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil {
			limit = val
		}
	}

	books, err := h.searcher.Search(r.Context(), term, limit)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Book search is unavailable", nil)
		return
	}

	httpx.JSONSuccess(w, books, map[string]any{"query": term, "count": len(books)})
}
