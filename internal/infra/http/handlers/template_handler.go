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

type TemplateService interface {
	List(ctx context.Context, f entity.TemplateFilter) ([]entity.Template, error)
	Create(ctx context.Context, in usecase.CreateTemplateInput) (*entity.Template, error)
	Update(ctx context.Context, id int64, raw map[string]any) (*entity.Template, error)
	Delete(ctx context.Context, id int64) error
}

type MessageSender interface {
	Execute(ctx context.Context, in usecase.SendMessageInput) (*usecase.SendMessageOutput, error)
}

type TemplateHandler struct {
	Templates TemplateService
	Sender    MessageSender
	Logger    *zap.Logger
}

func NewTemplateHandler(templates TemplateService, sender MessageSender, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{Templates: templates, Sender: sender, Logger: logger}
}

// List (GET /api/templates?type&category&starred)
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.TemplateFilter{Type: q.Get("type"), Category: q.Get("category")}
	if s := q.Get("starred"); s != "" {
		starred, err := strconv.ParseBool(s)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "starred must be true or false")
			return
		}
		f.Starred = &starred
	}

	templates, err := h.Templates.List(r.Context(), f)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if templates == nil {
		templates = []entity.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Create (POST /api/templates)
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateTemplateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := h.Templates.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Update (PUT /api/templates/{id})
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var raw map[string]any
	if !decodeJSON(w, r, &raw) {
		return
	}
	t, err := h.Templates.Update(r.Context(), id, raw)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Delete (DELETE /api/templates/{id})
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Templates.Delete(r.Context(), id); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage (POST /api/send-message)
func (h *TemplateHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var in usecase.SendMessageInput
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Sender.Execute(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
