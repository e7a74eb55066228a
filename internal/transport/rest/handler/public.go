package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"formsmith/internal/markup"
	"formsmith/internal/model"
	"formsmith/internal/service"
)

// PublishedForms loads forms respondents may open
type PublishedForms interface {
	LoadPublished(ctx context.Context, id string) (*model.FormDefinition, error)
}

// SessionStarter opens respondent sessions
type SessionStarter interface {
	Start(ctx context.Context, formID string) (*service.StartedSession, error)
}

// PublicHandler serves unauthenticated respondent endpoints
type PublicHandler struct {
	forms    PublishedForms
	sessions SessionStarter
}

func NewPublicHandler(forms PublishedForms, sessions SessionStarter) *PublicHandler {
	return &PublicHandler{forms: forms, sessions: sessions}
}

// GetForm handles GET /v1/public/forms/{formId}. Markup is rendered and
// correct answers are left out.
func (h *PublicHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	def, err := h.forms.LoadPublished(r.Context(), formID)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, markup.RenderForm(def))
}

// StartSession handles POST /v1/public/forms/{formId}/sessions
func (h *PublicHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	started, err := h.sessions.Start(r.Context(), formID)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, started)
}
