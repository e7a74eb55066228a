package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "formsmith/internal/docs"
	"formsmith/internal/service"
	"formsmith/internal/transport/rest/handler"
	"formsmith/internal/transport/rest/middleware"
	"formsmith/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	FormService      *service.FormService
	SessionService   *service.SessionService
	ResponseService  *service.ResponseService
	AnalyticsService *service.AnalyticsService
	WSHub            *ws.Hub
	AllowedOrigins   []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	publicHandler := handler.NewPublicHandler(c.FormService, c.SessionService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	responseHandler := handler.NewResponseHandler(c.FormService, c.ResponseService, c.AnalyticsService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.FormService, c.AllowedOrigins)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(middleware.RequestLogger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/public/forms/{formId}", publicHandler.GetForm).Methods("GET", "OPTIONS")
	v1.HandleFunc("/public/forms/{formId}/sessions", publicHandler.StartSession).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/forms/{formId}", wsHandler.OwnerWS).Methods("GET")

	// Owner routes (require owner auth)
	ownerRoutes := v1.NewRoute().Subrouter()
	ownerRoutes.Use(authMW.RequireOwner)

	ownerRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/import", formHandler.Import).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}/publish", formHandler.Publish).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}/unpublish", formHandler.Unpublish).Methods("POST", "OPTIONS")

	// Response routes (owner only)
	ownerRoutes.HandleFunc("/forms/{formId}/responses", responseHandler.List).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}/responses/{responseId}", responseHandler.Get).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}/analytics", responseHandler.Analytics).Methods("GET", "OPTIONS")

	// Respondent routes (require session token)
	respondentRoutes := v1.NewRoute().Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/answers/{questionId}", sessionHandler.SetAnswer).Methods("PUT", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/advance", sessionHandler.Advance).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/reset", sessionHandler.Reset).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := allowOrigin(allowedOrigins, r.Header.Get("Origin")); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allowOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		o = strings.TrimSpace(o)
		if o == "*" {
			return "*"
		}
		if origin != "" && o == origin {
			return origin
		}
	}
	return ""
}
