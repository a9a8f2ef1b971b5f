// Package events is the in-process publish/subscribe mechanism that lets the
// scheduler hand computed digests to the modules that consume them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every message published on a Bus.
type Event interface {
	// EventName is the subscription key, for example "agentstats.digest_computed".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the identity and time of an event. Embed it in concrete events.
type BaseEvent struct {
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event was created.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// ID returns the unique event identifier used to correlate handler logs.
func (e BaseEvent) ID() string {
	return e.EventID
}

// NewBaseEvent stamps a fresh identifier and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{EventID: uuid.NewString(), Timestamp: time.Now().UTC()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers events to the handlers subscribed to their name.
type Bus interface {
	// Publish dispatches in the background; handler errors are logged.
	Publish(ctx context.Context, event Event)
	// PublishSync runs every handler and joins their errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
