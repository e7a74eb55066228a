package ws

import (
	"encoding/json"
	"sync"

	"formsmith/internal/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Owner message types
const (
	MsgResponseSubmitted MessageType = "response_submitted"
	MsgAnalyticsUpdate   MessageType = "analytics_update"
	MsgFormDeleted       MessageType = "form_deleted"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages owner WebSocket connections per form. An owner may have
// several tabs open on the same form.
type Hub struct {
	ownerConns map[string]map[*Connection]struct{} // formID -> conns

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
}

// Connection represents a WebSocket connection
type Connection struct {
	FormID  string
	OwnerID string
	Send    chan []byte
	Hub     *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	FormID  string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		ownerConns: make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string, 16),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.ownerConns[conn.FormID] == nil {
				h.ownerConns[conn.FormID] = make(map[*Connection]struct{})
			}
			h.ownerConns[conn.FormID][conn] = struct{}{}
			h.mu.Unlock()
			log.Debugf("Owner %s connected to form %s", conn.OwnerID, conn.FormID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.ownerConns[conn.FormID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.ownerConns, conn.FormID)
					}
					log.Debugf("Owner %s disconnected from form %s", conn.OwnerID, conn.FormID)
				}
			}
			h.mu.Unlock()

		case formID := <-h.disconnect:
			h.mu.Lock()
			for conn := range h.ownerConns[formID] {
				close(conn.Send)
			}
			delete(h.ownerConns, formID)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.WithError(err).Warn("ws message encode failed")
				continue
			}
			h.mu.RLock()
			for conn := range h.ownerConns[msg.FormID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Connected returns how many owner connections are open on a form
func (h *Hub) Connected(formID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.ownerConns[formID])
}

// BroadcastToOwner sends a message to every owner connection on the form (implements service.Broadcaster)
func (h *Hub) BroadcastToOwner(formID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Warn("ws payload encode failed")
		return
	}
	h.Deliver(formID, MessageType(msgType), data)
}

// Deliver sends an already encoded payload
func (h *Hub) Deliver(formID string, msgType MessageType, payload json.RawMessage) {
	h.broadcast <- &BroadcastMessage{
		FormID: formID,
		Message: &Message{
			Type:    msgType,
			Payload: payload,
		},
	}
}

// DisconnectForm closes every connection on the form (implements service.Broadcaster)
func (h *Hub) DisconnectForm(formID string) {
	h.disconnect <- formID
}
