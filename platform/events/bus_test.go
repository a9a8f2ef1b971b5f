package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tre_crm/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishSyncJoinsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls int32

	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		panic("kaboom")
	}))
	bus.Subscribe("test.other", HandlerFunc(func(context.Context, Event) error {
		t.Fatal("unrelated handler called")
		return nil
	}))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

func TestPublishRunsHandlersAsync(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls int32

	for i := 0; i < 3; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestNewBaseEventIsUnique(t *testing.T) {
	a, b := NewBaseEvent(), NewBaseEvent()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID(), b.ID())
	}
	if a.OccurredAt().Location() != time.UTC {
		t.Fatal("expected UTC timestamp")
	}
	if eventID(pingEvent{BaseEvent: a}) != a.ID() {
		t.Fatal("expected embedded id to be reported")
	}
}
