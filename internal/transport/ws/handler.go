package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"formsmith/internal/log"
	"formsmith/internal/model"
	"formsmith/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// FormOwnership resolves a form for its owner
type FormOwnership interface {
	Get(ctx context.Context, ownerID, id string) (*model.FormDefinition, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	forms    FormOwnership
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. An empty or "*" origin list allows any origin.
func NewHandler(hub *Hub, authSvc *service.AuthService, forms FormOwnership, allowedOrigins []string) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		forms:   forms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return len(allowed) == 0
	}
}

// OwnerWS handles GET /v1/ws/forms/{formId}
func (h *Handler) OwnerWS(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateOwnerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := h.forms.Get(r.Context(), claims.OwnerID, formID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, "form not found", http.StatusNotFound)
		case errors.Is(err, service.ErrForbidden):
			http.Error(w, "form belongs to another owner", http.StatusForbidden)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	conn := &Connection{
		FormID:  formID,
		OwnerID: claims.OwnerID,
		Send:    make(chan []byte, 256),
		Hub:     h.hub,
	}

	h.hub.Register(conn)

	log.WithFields(log.Fields{"owner_id": claims.OwnerID, "form_id": formID}).Info("owner connected via WebSocket")

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("WebSocket read error")
			}
			break
		}
		// the owner feed is one-way; client frames only keep the read deadline alive
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
