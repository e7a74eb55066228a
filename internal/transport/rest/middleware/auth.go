package middleware

import (
	"context"
	"net/http"
	"strings"

	"formsmith/internal/service"
)

type contextKey string

const (
	OwnerIDKey   contextKey = "ownerId"
	SessionIDKey contextKey = "sessionId"
	FormIDKey    contextKey = "formId"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireOwner validates owner JWT from Authorization header
func (m *AuthMiddleware) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		claims, err := m.authSvc.ValidateOwnerToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), OwnerIDKey, claims.OwnerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRespondent validates a session-scoped JWT from Authorization header or query param
func (m *AuthMiddleware) RequireRespondent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}

		claims, err := m.authSvc.ValidateRespondentToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
		ctx = context.WithValue(ctx, FormIDKey, claims.FormID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOwnerID extracts owner ID from context
func GetOwnerID(ctx context.Context) string {
	if v, ok := ctx.Value(OwnerIDKey).(string); ok {
		return v
	}
	return ""
}

// GetSessionID extracts the respondent's session ID from context
func GetSessionID(ctx context.Context) string {
	if v, ok := ctx.Value(SessionIDKey).(string); ok {
		return v
	}
	return ""
}

// GetFormID extracts the respondent's form ID from context
func GetFormID(ctx context.Context) string {
	if v, ok := ctx.Value(FormIDKey).(string); ok {
		return v
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
