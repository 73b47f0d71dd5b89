package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

type CartService interface {
	List(ctx context.Context, in usecase.CartListInput) (*usecase.CartPage, error)
	Get(ctx context.Context, id string) (*entity.Cart, error)
	Metrics(ctx context.Context, in usecase.CartMetricsInput) (*usecase.CartMetrics, error)
}

type RemarkService interface {
	List(ctx context.Context, cartID string) ([]entity.Remark, error)
	Add(ctx context.Context, in usecase.AddRemarkInput) (*entity.Remark, error)
	Delete(ctx context.Context, cartID string, remarkID int64) ([]entity.Remark, error)
	SetStatus(ctx context.Context, in usecase.SetStatusInput) (*entity.Remark, error)
	LatestStatus(ctx context.Context, cartID string) (*string, error)
	Update(ctx context.Context, in usecase.CartUpdateInput) (*usecase.CartUpdateOutput, error)
}

type CartHandler struct {
	Carts   CartService
	Remarks RemarkService
	Logger  *zap.Logger
}

func NewCartHandler(carts CartService, remarks RemarkService, logger *zap.Logger) *CartHandler {
	return &CartHandler{Carts: carts, Remarks: remarks, Logger: logger}
}

type dataResponse struct {
	Data any `json:"data"`
}

// List (GET /api/carts?page=&q=&status=&start_date=&end_date=)
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryWindow(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	out, err := h.Carts.List(r.Context(), usecase.CartListInput{
		Page:   page,
		Query:  r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
		Start:  start,
		End:    end,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Get (GET /api/carts/{id})
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// Metrics (GET /api/carts/metrics)
func (h *CartHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryWindow(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	out, err := h.Carts.Metrics(r.Context(), usecase.CartMetricsInput{
		Start:        start,
		End:          end,
		StatusSource: usecase.StatusSource(r.URL.Query().Get("status_source")),
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListRemarks (GET /api/carts/{id}/remarks)
func (h *CartHandler) ListRemarks(w http.ResponseWriter, r *http.Request) {
	remarks, err := h.Remarks.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: remarks})
}

// AddRemark (POST /api/carts/{id}/remarks)
func (h *CartHandler) AddRemark(w http.ResponseWriter, r *http.Request) {
	var in usecase.AddRemarkInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.CartID = chi.URLParam(r, "id")

	remark, err := h.Remarks.Add(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: remark})
}

// DeleteRemark (DELETE /api/carts/{id}/remarks/{remarkId})
func (h *CartHandler) DeleteRemark(w http.ResponseWriter, r *http.Request) {
	remarkID, err := parseID(chi.URLParam(r, "remarkId"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	remarks, err := h.Remarks.Delete(r.Context(), chi.URLParam(r, "id"), remarkID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: remarks})
}

// SetStatus (POST /api/carts/{id}/status)
func (h *CartHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var in usecase.SetStatusInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.CartID = chi.URLParam(r, "id")

	remark, err := h.Remarks.SetStatus(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: remark})
}

// Status (GET /api/carts/{id}/status)
func (h *CartHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Remarks.LatestStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*string{"status": status})
}

// Update (POST /api/cart-update) answers {remark, cart} for cart level
// changes and {data: [remark]} for remark level ones.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.CartUpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Remarks.Update(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if out.Cart == nil {
		writeJSON(w, http.StatusOK, dataResponse{Data: []*entity.Remark{out.Remark}})
		return
	}
	writeJSON(w, http.StatusOK, out)
}
