package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

type LeadService interface {
	List(ctx context.Context) ([]entity.Lead, error)
	Create(ctx context.Context, in usecase.CreateLeadInput) (*entity.Lead, bool, error)
	Update(ctx context.Context, id string, raw map[string]any) (*entity.Lead, error)
	Delete(ctx context.Context, id string) error
	ListLegacy(ctx context.Context) ([]entity.Lead, error)
	Merged(ctx context.Context, f usecase.LeadFilter) ([]entity.Lead, error)
	Stats(ctx context.Context) (*usecase.LeadStats, error)
}

type LeadHandler struct {
	Leads  LeadService
	Logger *zap.Logger
}

func NewLeadHandler(leads LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, Logger: logger}
}

// List (GET /api/leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// Create (POST /api/leads) answers 201 for a new lead and 200 when the
// mysql_id was already linked.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateLeadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	lead, created, err := h.Leads.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, lead)
}

// Update (PUT /api/leads/{id})
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if !decodeJSON(w, r, &raw) {
		return
	}
	lead, err := h.Leads.Update(r.Context(), chi.URLParam(r, "id"), raw)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Delete (DELETE /api/leads/{id})
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Legacy (GET /api/leads/legacy)
func (h *LeadHandler) Legacy(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.ListLegacy(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Merged (GET /api/leads/merged?q&status&source&start_date&end_date)
func (h *LeadHandler) Merged(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryWindow(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	q := r.URL.Query()
	leads, err := h.Leads.Merged(r.Context(), usecase.LeadFilter{
		Query:  q.Get("q"),
		Status: q.Get("status"),
		Source: q.Get("source"),
		Start:  start,
		End:    end,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Stats (GET /api/leads/stats)
func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Leads.Stats(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
