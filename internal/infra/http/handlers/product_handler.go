package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/usecase"
)

type ProductService interface {
	List(ctx context.Context, q usecase.ProductQuery) (*usecase.ProductListOutput, error)
	Stats(ctx context.Context) (*usecase.ProductStats, error)
}

type ProductHandler struct {
	Products ProductService
	Logger   *zap.Logger
}

func NewProductHandler(products ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{Products: products, Logger: logger}
}

// List (GET /api/products?q&vendor&type&min_price&max_price&sort&order)
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	minPrice, err := queryFloat(r, "min_price")
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	maxPrice, err := queryFloat(r, "max_price")
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	q := r.URL.Query()
	out, err := h.Products.List(r.Context(), usecase.ProductQuery{
		Query:    q.Get("q"),
		Vendor:   q.Get("vendor"),
		Type:     q.Get("type"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Stats (GET /api/products/stats)
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Products.Stats(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
