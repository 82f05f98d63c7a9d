package testutil

import (
	"sort"
	"sync"
	"time"
)

// FakeHost is a fully scripted host adapter. Time only moves via the
// embedded ManualClock, macrotasks run only when the test steps them, and
// timeouts fire during AdvanceTime once their deadline is reached.
//
// The zero yield policy never yields (unlimited slice budget); tests
// exercising preemption flip it with SetShouldYield.
type FakeHost struct {
	clock *ManualClock

	mu          sync.Mutex
	shouldYield bool
	macrotasks  []func()
	timers      []*fakeTimer
	nextTimerID int64

	// counters for assertions
	macrotasksScheduled int
	timeoutsScheduled   int
}

type fakeTimer struct {
	id        int64
	deadline  time.Duration
	fn        func()
	cancelled bool
}

// NewFakeHost creates a host with its own manual clock at zero.
func NewFakeHost() *FakeHost {
	return &FakeHost{clock: NewManualClock()}
}

// Clock exposes the underlying manual clock.
func (h *FakeHost) Clock() *ManualClock { return h.clock }

// Now implements the host clock.
func (h *FakeHost) Now() time.Duration { return h.clock.Now() }

// ShouldYield implements the host yield predicate.
func (h *FakeHost) ShouldYield() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shouldYield
}

// SetShouldYield scripts the yield predicate.
func (h *FakeHost) SetShouldYield(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shouldYield = v
}

// ScheduleMacrotask implements the host macrotask boundary: fn is queued
// FIFO and runs when the test calls RunNextMacrotask.
func (h *FakeHost) ScheduleMacrotask(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.macrotasks = append(h.macrotasks, fn)
	h.macrotasksScheduled++
}

// ScheduleTimeout implements host timeouts; fires during AdvanceTime.
func (h *FakeHost) ScheduleTimeout(fn func(), delay time.Duration) any {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextTimerID++
	t := &fakeTimer{
		id:       h.nextTimerID,
		deadline: h.clock.Now() + delay,
		fn:       fn,
	}
	h.timers = append(h.timers, t)
	h.timeoutsScheduled++
	return t.id
}

// CancelTimeout implements host timeout cancellation.
func (h *FakeHost) CancelTimeout(handle any) {
	id, ok := handle.(int64)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.timers {
		if t.id == id {
			t.cancelled = true
		}
	}
}

// PendingMacrotasks returns the number of queued macrotasks.
func (h *FakeHost) PendingMacrotasks() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.macrotasks)
}

// MacrotasksScheduled returns the total ever scheduled.
func (h *FakeHost) MacrotasksScheduled() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.macrotasksScheduled
}

// TimeoutsScheduled returns the total timeouts ever armed.
func (h *FakeHost) TimeoutsScheduled() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timeoutsScheduled
}

// RunNextMacrotask runs the oldest queued macrotask. Returns false when
// the queue is empty.
func (h *FakeHost) RunNextMacrotask() bool {
	h.mu.Lock()
	if len(h.macrotasks) == 0 {
		h.mu.Unlock()
		return false
	}
	fn := h.macrotasks[0]
	h.macrotasks = h.macrotasks[1:]
	h.mu.Unlock()

	fn()
	return true
}

// RunUntilIdle steps macrotasks until none remain or maxSteps is hit.
// Returns the number of macrotasks executed. Timers do not fire; use
// AdvanceTime for that.
func (h *FakeHost) RunUntilIdle(maxSteps int) int {
	steps := 0
	for steps < maxSteps && h.RunNextMacrotask() {
		steps++
	}
	return steps
}

// AdvanceTime moves the clock forward and fires every timer whose
// deadline is reached, in deadline order. Timer callbacks typically
// enqueue macrotasks; step those separately.
func (h *FakeHost) AdvanceTime(d time.Duration) {
	h.clock.Advance(d)
	now := h.clock.Now()

	h.mu.Lock()
	var due []*fakeTimer
	var rest []*fakeTimer
	for _, t := range h.timers {
		if !t.cancelled && t.deadline <= now {
			due = append(due, t)
		} else if !t.cancelled {
			rest = append(rest, t)
		}
	}
	h.timers = rest
	h.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].id < due[j].id
	})
	for _, t := range due {
		t.fn()
	}
}
