package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formsmith/internal/model"
	"formsmith/internal/transport/rest/middleware"
)

// SessionRunner drives a respondent session
type SessionRunner interface {
	Get(ctx context.Context, sessionID string) (*model.SessionState, error)
	SetAnswer(ctx context.Context, sessionID, questionID string, a model.Answer) (*model.SessionState, error)
	Advance(ctx context.Context, sessionID string, target int) (*model.SessionState, error)
	Submit(ctx context.Context, sessionID string) (*model.SessionState, error)
	Reset(ctx context.Context, sessionID string) (*model.SessionState, error)
}

// SessionHandler handles respondent session endpoints
type SessionHandler struct {
	sessionSvc SessionRunner
}

func NewSessionHandler(sessionSvc SessionRunner) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// SetAnswerRequest carries a string, or a list of strings for multi-choice
type SetAnswerRequest struct {
	Value model.Answer `json:"value"`
}

// AdvanceRequest names the section to move to
type AdvanceRequest struct {
	Section int `json:"section"`
}

// sessionID returns the path session after checking it matches the token
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["sessionId"]
	if id == "" || id != middleware.GetSessionID(r.Context()) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return "", false
	}
	return id, true
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.sessionSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// SetAnswer handles PUT /v1/sessions/{sessionId}/answers/{questionId}
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	questionID := mux.Vars(r)["questionId"]

	var req SetAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "value must be a string or a list of strings")
		return
	}

	state, err := h.sessionSvc.SetAnswer(r.Context(), id, questionID, req.Value)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Advance handles POST /v1/sessions/{sessionId}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req AdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.sessionSvc.Advance(r.Context(), id, req.Section)
	h.writeState(w, r, state, err)
}

// Submit handles POST /v1/sessions/{sessionId}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.sessionSvc.Submit(r.Context(), id)
	h.writeState(w, r, state, err)
}

// Reset handles POST /v1/sessions/{sessionId}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.sessionSvc.Reset(r.Context(), id)
	h.writeState(w, r, state, err)
}

// writeState reports err with the saved session attached when there is one
func (h *SessionHandler) writeState(w http.ResponseWriter, r *http.Request, state *model.SessionState, err error) {
	if err != nil {
		var extra map[string]interface{}
		if state != nil {
			extra = map[string]interface{}{"session": state}
		}
		writeServiceError(w, r, err, extra)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
