package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"formsmith/internal/log"
	"formsmith/internal/model"
	"formsmith/internal/service"
)

// AnalyticsRefresher recomputes and caches a form's analytics
type AnalyticsRefresher interface {
	Refresh(ctx context.Context, formID string) (*model.FormAnalytics, error)
}

// EventPublisher fans events out to the API processes
type EventPublisher interface {
	Publish(ctx context.Context, formID, eventType string, payload interface{}) error
}

type Handler struct {
	analytics AnalyticsRefresher
	events    EventPublisher
}

func NewHandler(analytics AnalyticsRefresher, events EventPublisher) *Handler {
	return &Handler{analytics: analytics, events: events}
}

// ServeMux routes every task type this package defines
func (h *Handler) ServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeResponseSubmitted, h.HandleResponseSubmitted)
	return mux
}

func (h *Handler) HandleResponseSubmitted(ctx context.Context, t *asynq.Task) error {
	var payload ResponseSubmittedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	entry := log.WithFields(log.Fields{"form_id": payload.FormID, "response_id": payload.ResponseID})

	analytics, err := h.analytics.Refresh(ctx, payload.FormID)
	if errors.Is(err, service.ErrNotFound) {
		entry.Warn("form deleted before analytics refresh, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh analytics: %w", err)
	}

	if err := h.events.Publish(ctx, payload.FormID, service.MsgAnalyticsUpdate, analytics); err != nil {
		// the cache is already fresh; owners see it on their next fetch
		entry.WithError(err).Warn("analytics event publish failed")
	}

	entry.WithField("total_responses", analytics.TotalResponses).Debug("analytics refreshed")
	return nil
}
