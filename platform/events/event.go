// Package events carries in-process notifications between modules,
// such as QR codes and session changes arriving from the messaging
// webhook and escalations announced by the funnel. It knows nothing
// about those payloads; domain packages declare their own event types
// on top of it.
package events

import (
	"context"
	"time"
)

// Event is implemented by every notification published on the bus.
type Event interface {
	// EventName identifies the event type for subscription matching.
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp shared by all event types.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to a published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events from publishers to their subscribed handlers.
type Bus interface {
	// Publish delivers an event to every handler subscribed to its
	// name. Handlers run asynchronously.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers an event and waits for every handler,
	// joining any handler errors.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the given event name, as
	// returned by Event.EventName.
	Subscribe(eventName string, handler Handler)
}
