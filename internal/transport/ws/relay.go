package ws

import (
	"context"
	"time"

	"formsmith/internal/cache"
	"formsmith/internal/log"
)

const (
	publishTimeout = 2 * time.Second
	resubscribeGap = time.Second

	// eventDisconnect is internal to the relay and never reaches a client
	eventDisconnect = "ws:disconnect"
)

// Relay fans owner notifications out to every API process through the
// event bus. Each process runs one Relay feeding its local Hub.
type Relay struct {
	hub *Hub
	bus cache.EventBus
}

func NewRelay(hub *Hub, bus cache.EventBus) *Relay {
	return &Relay{hub: hub, bus: bus}
}

// BroadcastToOwner implements service.Broadcaster. If the bus is down the
// message still reaches owners connected to this process.
func (r *Relay) BroadcastToOwner(formID string, msgType string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.bus.Publish(ctx, formID, msgType, payload); err != nil {
		log.WithFields(log.Fields{"form_id": formID, "type": msgType}).WithError(err).Warn("event publish failed, delivering locally")
		r.hub.BroadcastToOwner(formID, msgType, payload)
	}
}

// DisconnectForm implements service.Broadcaster
func (r *Relay) DisconnectForm(formID string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.bus.Publish(ctx, formID, eventDisconnect, nil); err != nil {
		log.WithFields(log.Fields{"form_id": formID}).WithError(err).Warn("event publish failed, disconnecting locally")
		r.hub.DisconnectForm(formID)
	}
}

// Run delivers bus events to the hub until ctx is done, resubscribing after errors
func (r *Relay) Run(ctx context.Context) {
	for {
		err := r.bus.Subscribe(ctx, r.handle)
		if ctx.Err() != nil {
			return
		}
		log.WithError(err).Warn("event subscription lost, resubscribing")

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeGap):
		}
	}
}

func (r *Relay) handle(ev cache.FormEvent) {
	if ev.Type == eventDisconnect {
		r.hub.DisconnectForm(ev.FormID)
		return
	}
	r.hub.Deliver(ev.FormID, MessageType(ev.Type), ev.Payload)
}
