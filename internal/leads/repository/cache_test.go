package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"tre_crm/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingReader struct {
	calls int
	leads []Lead
	err   error
}

func (r *countingReader) ListLeads(_ context.Context, filter LeadFilter) ([]Lead, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if filter.AssignedAgentID == "" {
		return r.leads, nil
	}
	out := make([]Lead, 0)
	for _, l := range r.leads {
		if l.AssignedAgentID != nil && *l.AssignedAgentID == filter.AssignedAgentID {
			out = append(out, l)
		}
	}
	return out, nil
}

func strPtr(v string) *string { return &v }

func newTestCache(t *testing.T, next LeadReader) (*CachedReader, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCachedReader(next, rdb, time.Minute, logger.Discard()), srv
}

func TestCachedReaderServesSnapshotFromRedis(t *testing.T) {
	submitted := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	next := &countingReader{leads: []Lead{
		{ID: "l1", Name: "Ada", AssignedAgentID: strPtr("A"), SubmittedAt: &submitted},
		{ID: "l2", Name: "Bob"},
	}}
	cached, srv := newTestCache(t, next)
	ctx := context.Background()

	first, err := cached.ListLeads(ctx, LeadFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.ListLeads(ctx, LeadFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.calls != 1 {
		t.Fatalf("expected one database read, got %d", next.calls)
	}
	if len(second) != len(first) || second[0].SubmittedAt == nil || !second[0].SubmittedAt.Equal(submitted) {
		t.Fatalf("cached snapshot differs: %+v", second)
	}
	if ttl := srv.TTL(SnapshotCacheKey); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %s", ttl)
	}

	srv.FastForward(2 * time.Minute)
	if _, err := cached.ListLeads(ctx, LeadFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected a reload after expiry, got %d reads", next.calls)
	}
}

func TestCachedReaderBypassesFilteredQueries(t *testing.T) {
	next := &countingReader{leads: []Lead{{ID: "l1", AssignedAgentID: strPtr("A")}}}
	cached, srv := newTestCache(t, next)

	for i := 0; i < 2; i++ {
		if _, err := cached.ListLeads(context.Background(), LeadFilter{AssignedAgentID: "A"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if next.calls != 2 {
		t.Fatalf("expected filtered queries to hit the database, got %d", next.calls)
	}
	if srv.Exists(SnapshotCacheKey) {
		t.Fatal("filtered queries must not populate the snapshot key")
	}
}

func TestCachedReaderFallsBackWhenRedisDown(t *testing.T) {
	next := &countingReader{leads: []Lead{{ID: "l1"}}}
	cached, srv := newTestCache(t, next)
	srv.Close()

	leads, err := cached.ListLeads(context.Background(), LeadFilter{})
	if err != nil {
		t.Fatalf("expected fallback to database, got %v", err)
	}
	if len(leads) != 1 || next.calls != 1 {
		t.Fatalf("unexpected fallback result %v (calls %d)", leads, next.calls)
	}
}

func TestCachedReaderPropagatesDatabaseErrors(t *testing.T) {
	dbErr := errors.New("connection reset")
	cached, _ := newTestCache(t, &countingReader{err: dbErr})

	if _, err := cached.ListLeads(context.Background(), LeadFilter{}); !errors.Is(err, dbErr) {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestCachedReaderInvalidate(t *testing.T) {
	next := &countingReader{leads: []Lead{{ID: "l1"}}}
	cached, srv := newTestCache(t, next)
	ctx := context.Background()

	_, _ = cached.ListLeads(ctx, LeadFilter{})
	if err := cached.Invalidate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.Exists(SnapshotCacheKey) {
		t.Fatal("expected snapshot key to be removed")
	}
}
