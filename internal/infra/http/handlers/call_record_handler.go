package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

type CallRecordService interface {
	List(ctx context.Context, f entity.CallRecordFilter) ([]entity.CallRecord, error)
	Create(ctx context.Context, in usecase.CallRecordInput) (*entity.CallRecord, error)
	Update(ctx context.Context, id int64, in usecase.CallRecordInput) (*entity.CallRecord, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*usecase.CallRecordStats, error)
}

type CallRecordHandler struct {
	Records CallRecordService
	Logger  *zap.Logger
}

func NewCallRecordHandler(records CallRecordService, logger *zap.Logger) *CallRecordHandler {
	return &CallRecordHandler{Records: records, Logger: logger}
}

// List (GET /api/call-records?q&status&date_from&date_to)
func (h *CallRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := queryTime(r, "date_from")
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	to, err := queryTime(r, "date_to")
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	f := entity.CallRecordFilter{
		Search:   r.URL.Query().Get("q"),
		Status:   r.URL.Query().Get("status"),
		DateFrom: from,
		DateTo:   to,
	}
	if f.Status == "all" {
		f.Status = ""
	}

	records, err := h.Records.List(r.Context(), f)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if records == nil {
		records = []entity.CallRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Create (POST /api/call-records)
func (h *CallRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CallRecordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, err := h.Records.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Update (PUT /api/call-records/{id})
func (h *CallRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var in usecase.CallRecordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, err := h.Records.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete (DELETE /api/call-records/{id})
func (h *CallRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Records.Delete(r.Context(), id); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats (GET /api/call-records/stats)
func (h *CallRecordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Records.Stats(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
