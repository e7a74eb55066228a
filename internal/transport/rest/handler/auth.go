package handler

import (
	"encoding/json"
	"net/http"

	"formsmith/internal/model"
)

// Authenticator checks owner credentials
type Authenticator interface {
	Login(username, password string) (*model.LoginResponse, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc Authenticator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc Authenticator) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login
//
//	@Summary	Owner login
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.LoginRequest	true	"credentials"
//	@Success	200		{object}	model.LoginResponse
//	@Failure	401		{object}	map[string]string
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
