// Package events re-exports the platform event bus and defines the domain
// events exchanged between modules.
package events

import (
	platformevents "tre_crm/platform/events"
	"tre_crm/platform/logger"
)

type (
	Event       = platformevents.Event
	BaseEvent   = platformevents.BaseEvent
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
	InMemoryBus = platformevents.InMemoryBus
)

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
