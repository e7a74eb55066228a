package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// EventsChannel carries form events from the worker to the API processes
const EventsChannel = "forms:events"

// FormEvent is one notification for a form's owner
type FormEvent struct {
	FormID  string          `json:"formId"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus publishes and relays FormEvents over Redis pub/sub
type EventBus interface {
	Publish(ctx context.Context, formID, eventType string, payload interface{}) error
	Subscribe(ctx context.Context, handle func(FormEvent)) error
}

type eventBus struct {
	client *redis.Client
}

func NewEventBus(client *redis.Client) EventBus {
	return &eventBus{client: client}
}

func (b *eventBus) Publish(ctx context.Context, formID, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(FormEvent{FormID: formID, Type: eventType, Payload: data})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, EventsChannel, msg).Err()
}

// Subscribe blocks, calling handle for every event until ctx is done.
// Malformed messages are skipped.
func (b *eventBus) Subscribe(ctx context.Context, handle func(FormEvent)) error {
	sub := b.client.Subscribe(ctx, EventsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev FormEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			handle(ev)
		}
	}
}
