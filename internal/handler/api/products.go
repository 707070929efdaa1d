// Package api holds the JSON storefront handlers.
package api

import (
	"net/http"
	"strconv"

	"vibecart/internal/catalog"
	"vibecart/internal/handler"
)

// ProductHandler handles catalog routes
type ProductHandler struct {
	catalog catalog.Store
}

// NewProductHandler creates a new product handler
func NewProductHandler(store catalog.Store) *ProductHandler {
	return &ProductHandler{catalog: store}
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := catalog.ListParams{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Page:     intQuery(q.Get("page")),
		Limit:    intQuery(q.Get("limit")),
	}
	if v := q.Get("inStock"); v != "" {
		inStock := v == "true"
		params.InStock = &inStock
	}

	products, total, err := h.catalog.List(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"total":    total,
	})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, product)
}

func intQuery(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
