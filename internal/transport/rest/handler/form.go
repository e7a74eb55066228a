package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formsmith/internal/form"
	"formsmith/internal/model"
	"formsmith/internal/transport/rest/middleware"
)

// FormManager is the owner-facing form API
type FormManager interface {
	Create(ctx context.Context, ownerID string, def *model.FormDefinition) (*model.FormDefinition, error)
	Import(ctx context.Context, ownerID string, doc *form.ImportDocument) (*model.FormDefinition, error)
	Get(ctx context.Context, ownerID, id string) (*model.FormDefinition, error)
	List(ctx context.Context, ownerID string) ([]*model.FormDefinition, error)
	Update(ctx context.Context, ownerID, id string, def *model.FormDefinition) (*model.FormDefinition, error)
	SetPublished(ctx context.Context, ownerID, id string, published bool) (*model.FormDefinition, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// FormHandler handles form builder endpoints
type FormHandler struct {
	formSvc FormManager
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc FormManager) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var def model.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.formSvc.Create(r.Context(), ownerID, &def)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Import handles POST /v1/forms/import
func (h *FormHandler) Import(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var doc form.ImportDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid import document")
		return
	}

	created, err := h.formSvc.Import(r.Context(), ownerID, &doc)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	forms, err := h.formSvc.List(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	def, err := h.formSvc.Get(r.Context(), middleware.GetOwnerID(r.Context()), formID)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	var def model.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.formSvc.Update(r.Context(), middleware.GetOwnerID(r.Context()), formID, &def)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	if err := h.formSvc.Delete(r.Context(), middleware.GetOwnerID(r.Context()), formID); err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST /v1/forms/{formId}/publish
func (h *FormHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

// Unpublish handles POST /v1/forms/{formId}/unpublish
func (h *FormHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *FormHandler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	formID := mux.Vars(r)["formId"]

	def, err := h.formSvc.SetPublished(r.Context(), middleware.GetOwnerID(r.Context()), formID, published)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, def)
}
