package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

type CheckoutService interface {
	Sync(ctx context.Context) (*usecase.SyncOutput, error)
	ListStored(ctx context.Context, start, end *time.Time) (*usecase.CheckoutListOutput, error)
	ListLive(ctx context.Context, start, end *time.Time) (*usecase.CheckoutListOutput, error)
	UpdateField(ctx context.Context, id, field, value string) (*entity.Checkout, error)
	CheckoutURL(ctx context.Context, id string) (string, error)
	CheckoutURLs(ctx context.Context, email string, start, end *time.Time) (*usecase.CheckoutURLsOutput, error)
}

type CheckoutHandler struct {
	Checkouts CheckoutService
	Logger    *zap.Logger
}

func NewCheckoutHandler(checkouts CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Checkouts: checkouts, Logger: logger}
}

// Sync (POST /api/checkouts/sync)
func (h *CheckoutHandler) Sync(w http.ResponseWriter, r *http.Request) {
	out, err := h.Checkouts.Sync(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// List (GET /api/checkouts) reads the store, or the platform with ?shopify=1.
func (h *CheckoutHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryWindow(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	var out *usecase.CheckoutListOutput
	if queryBool(r, "shopify") {
		out, err = h.Checkouts.ListLive(r.Context(), start, end)
	} else {
		out, err = h.Checkouts.ListStored(r.Context(), start, end)
	}
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type fieldUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Update (PATCH /api/checkouts/{id})
func (h *CheckoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	row, err := h.Checkouts.UpdateField(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// URL (GET /api/checkouts/{id}/url)
func (h *CheckoutHandler) URL(w http.ResponseWriter, r *http.Request) {
	url, err := h.Checkouts.CheckoutURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

// URLs (GET /api/checkout-urls?email=)
func (h *CheckoutHandler) URLs(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryWindow(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	out, err := h.Checkouts.CheckoutURLs(r.Context(), r.URL.Query().Get("email"), start, end)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
