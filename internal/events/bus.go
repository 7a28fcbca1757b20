package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/avenside/inkpost-be/internal/metrics"
)

// Publisher is the write side of the bus, as seen by the services that
// emit lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler reacts to a single event. An error returned from a handler is
// propagated to the publisher and stops dispatch of that event.
type Handler func(ctx context.Context, event Event) error

// Bus is an in-process event bus. Handlers are invoked synchronously on
// the publisher's goroutine, in the order they were subscribed. There is
// no retry and no deduplication: an event is dispatched exactly once per
// Publish call.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
}

// NewBus creates an empty bus. Bindings are made explicitly through
// Subscribe; nothing is registered as a side effect of package import.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

// Subscribe binds a handler to a topic.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish delivers the event to every handler subscribed to its topic.
// The first handler error aborts dispatch and is returned to the caller;
// handlers subscribed later do not run for that event.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Topic()]
	b.mu.RUnlock()

	metrics.EventsPublished.WithLabelValues(string(event.Topic())).Inc()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			metrics.HandlerErrors.WithLabelValues(string(event.Topic())).Inc()
			return fmt.Errorf("event %s: %w", event.Topic(), err)
		}
	}
	return nil
}
