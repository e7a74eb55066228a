package service

import "context"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToOwner(formID string, msgType string, payload interface{})
	DisconnectForm(formID string)
}

// TaskEnqueuer hands post-submit work to the background worker
type TaskEnqueuer interface {
	EnqueueResponseSubmitted(ctx context.Context, formID, responseID string) error
}

// WebSocket message types sent to owners
const (
	MsgResponseSubmitted = "response_submitted"
	MsgAnalyticsUpdate   = "analytics_update"
	MsgFormDeleted       = "form_deleted"
)
