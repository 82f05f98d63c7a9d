// Package testutil provides deterministic time and host fakes for tests.
//
// Scheduler behavior depends on a clock, a yield predicate and macrotask /
// timeout primitives. Driving those by hand keeps every test reproducible:
// no sleeps, no wall-clock races, no flaky deadlines.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a virtual monotonic clock advanced explicitly by tests.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

// NewManualClock creates a clock at zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the current virtual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative advances are ignored;
// the clock is monotonic.
func (c *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// Set jumps the clock to an absolute time, never backward.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
}
