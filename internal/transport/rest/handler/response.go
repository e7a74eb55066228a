package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"formsmith/internal/model"
	"formsmith/internal/transport/rest/middleware"
)

// ResponseReader reads stored responses of an owned form
type ResponseReader interface {
	List(ctx context.Context, ownerID, formID string) ([]*model.Response, error)
	Get(ctx context.Context, ownerID, formID, responseID string) (*model.Response, error)
}

// AnalyticsReader returns aggregates for a form
type AnalyticsReader interface {
	ForForm(ctx context.Context, def *model.FormDefinition) (*model.FormAnalytics, error)
}

// ResponseHandler handles owner response and analytics endpoints
type ResponseHandler struct {
	forms     FormManager
	responses ResponseReader
	analytics AnalyticsReader
}

func NewResponseHandler(forms FormManager, responses ResponseReader, analytics AnalyticsReader) *ResponseHandler {
	return &ResponseHandler{forms: forms, responses: responses, analytics: analytics}
}

// List handles GET /v1/forms/{formId}/responses
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	responses, err := h.responses.List(r.Context(), middleware.GetOwnerID(r.Context()), formID)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}

// Get handles GET /v1/forms/{formId}/responses/{responseId}
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resp, err := h.responses.Get(r.Context(), middleware.GetOwnerID(r.Context()), vars["formId"], vars["responseId"])
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Analytics handles GET /v1/forms/{formId}/analytics
func (h *ResponseHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	def, err := h.forms.Get(r.Context(), middleware.GetOwnerID(r.Context()), formID)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	analytics, err := h.analytics.ForForm(r.Context(), def)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}
