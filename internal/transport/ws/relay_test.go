package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"formsmith/internal/cache"
)

// memBus is an in-process EventBus with a single subscriber
type memBus struct {
	mu         sync.Mutex
	events     chan cache.FormEvent
	failPub    error
	subscribed chan struct{}
}

func newMemBus() *memBus {
	return &memBus{events: make(chan cache.FormEvent, 16), subscribed: make(chan struct{}, 4)}
}

func (b *memBus) Publish(_ context.Context, formID, eventType string, payload interface{}) error {
	b.mu.Lock()
	err := b.failPub
	b.mu.Unlock()
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	b.events <- cache.FormEvent{FormID: formID, Type: eventType, Payload: data}
	return nil
}

func (b *memBus) Subscribe(ctx context.Context, handle func(cache.FormEvent)) error {
	b.subscribed <- struct{}{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-b.events:
			handle(ev)
		}
	}
}

func TestRelayDeliversBusEventsToHub(t *testing.T) {
	h := NewHub()
	bus := newMemBus()
	relay := NewRelay(h, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)
	<-bus.subscribed

	c := newConn(h, "f1")
	relay.BroadcastToOwner("f1", string(MsgAnalyticsUpdate), map[string]int{"totalResponses": 3})

	msg := receive(t, c)
	assert.Equal(t, MsgAnalyticsUpdate, msg.Type)
	assert.JSONEq(t, `{"totalResponses":3}`, string(msg.Payload))
}

func TestRelayDisconnectTravelsOverBus(t *testing.T) {
	h := NewHub()
	bus := newMemBus()
	relay := NewRelay(h, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)
	<-bus.subscribed

	c := newConn(h, "f1")
	relay.DisconnectForm("f1")

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("connection not closed")
	}
}

func TestRelayFallsBackToLocalHub(t *testing.T) {
	h := NewHub()
	bus := newMemBus()
	bus.failPub = errors.New("redis down")
	relay := NewRelay(h, bus)

	c := newConn(h, "f1")
	relay.BroadcastToOwner("f1", string(MsgFormDeleted), map[string]string{"formId": "f1"})
	assert.Equal(t, MsgFormDeleted, receive(t, c).Type)

	relay.DisconnectForm("f1")
	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("connection not closed")
	}
}

func TestRelayRunStopsOnCancel(t *testing.T) {
	bus := newMemBus()
	relay := NewRelay(NewHub(), bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()
	<-bus.subscribed
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
