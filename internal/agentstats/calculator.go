// Package agentstats derives per-agent lead counts from a lead snapshot.
// It performs no I/O: callers load the snapshot and own the returned Stats.
package agentstats

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// DefaultWindow is the trailing window used for the closed count.
	DefaultWindow = 90 * 24 * time.Hour
	// DefaultClosedProbability is the chance an in-window assigned lead counts as closed.
	DefaultClosedProbability = 0.3
)

// Lead is the read-only view of a lead record the calculator needs.
// Empty identifiers and a zero SubmittedAt mean the value is absent.
type Lead struct {
	ID              string
	AssignedAgentID string
	FoundByAgentID  string
	SubmittedAt     time.Time
}

// Stats holds the counts computed for one agent.
type Stats struct {
	Generated int `json:"generated"`
	Assigned  int `json:"assigned"`
	Closed    int `json:"closed"`
}

// ClosedPredicate decides whether an assigned, in-window lead counts as closed.
//
// There is no deals table to join against yet, so the default policy is a
// random draw (see ClosedWithProbability).
type ClosedPredicate func(lead Lead) bool

// ClosedWithProbability returns a predicate that draws once per lead and
// reports true with probability p. A nil src uses the global generator.
func ClosedWithProbability(p float64, src rand.Source) ClosedPredicate {
	if p <= 0 {
		return func(Lead) bool { return false }
	}
	if p >= 1 {
		return func(Lead) bool { return true }
	}
	if src == nil {
		return func(Lead) bool { return rand.Float64() < p }
	}

	// rand.Rand is not safe for concurrent use.
	var mu sync.Mutex
	rng := rand.New(src)
	return func(Lead) bool {
		mu.Lock()
		defer mu.Unlock()
		return rng.Float64() < p
	}
}

// Calculator computes Stats with an injectable clock and closed policy.
type Calculator struct {
	now    func() time.Time
	closed ClosedPredicate
	window time.Duration
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock sets the source of the evaluation time.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithClosedPredicate replaces the closed policy.
func WithClosedPredicate(p ClosedPredicate) Option {
	return func(c *Calculator) {
		if p != nil {
			c.closed = p
		}
	}
}

// WithWindow sets the trailing window for the closed count. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(c *Calculator) {
		if d > 0 {
			c.window = d
		}
	}
}

// New creates a Calculator. Without options it uses the wall clock,
// a 90 day window and a 30% closed probability.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		now:    time.Now,
		closed: ClosedWithProbability(DefaultClosedProbability, nil),
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the current evaluation time from the calculator's clock.
func (c *Calculator) Now() time.Time {
	return c.now()
}

// Window returns the configured trailing window.
func (c *Calculator) Window() time.Duration {
	return c.window
}

// Compute returns the stats for agentID evaluated at the calculator's current time.
func (c *Calculator) Compute(agentID string, leads []Lead) Stats {
	return c.ComputeAt(agentID, leads, c.now())
}

// ComputeAt returns the stats for agentID with the window ending at now.
// The leads slice is only read; a nil slice yields zero counts.
func (c *Calculator) ComputeAt(agentID string, leads []Lead, now time.Time) Stats {
	var stats Stats
	cutoff := now.Add(-c.window)

	for _, lead := range leads {
		if matches(lead.FoundByAgentID, agentID) {
			stats.Generated++
		}
		if !matches(lead.AssignedAgentID, agentID) {
			continue
		}
		stats.Assigned++

		if lead.SubmittedAt.IsZero() || lead.SubmittedAt.Before(cutoff) {
			continue
		}
		if c.closed(lead) {
			stats.Closed++
		}
	}

	return stats
}

var defaultCalculator = New()

// Compute runs the default calculator.
func Compute(agentID string, leads []Lead) Stats {
	return defaultCalculator.Compute(agentID, leads)
}

// An absent field never matches, not even an empty agent id.
func matches(field, agentID string) bool {
	return field != "" && field == agentID
}
