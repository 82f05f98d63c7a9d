package sched

import (
	"sync"
	"sync/atomic"
	"time"
)

// TimerHandle identifies an armed host timeout for cancellation. It is an
// alias so host implementations need not depend on this package.
type TimerHandle = any

// Host supplies the environment primitives the scheduler needs: a clock, a
// yield predicate, a macrotask boundary and timeouts. The scheduler never
// spins or sleeps itself.
type Host interface {
	// Now returns monotonic time since an arbitrary origin.
	Now() time.Duration

	// ShouldYield reports that the current slice's deadline has passed, or
	// that the host has more urgent work (input, paint) pending.
	ShouldYield() bool

	// ScheduleMacrotask runs fn at the next macrotask boundary. Macrotasks
	// must not reorder relative to each other.
	ScheduleMacrotask(fn func())

	// ScheduleTimeout runs fn once after delay.
	ScheduleTimeout(fn func(), delay time.Duration) TimerHandle

	// CancelTimeout disarms a previously scheduled timeout. Cancelling a
	// fired or already cancelled handle is a no-op.
	CancelTimeout(h TimerHandle)
}

// defaultFrameInterval is the slice budget handed to each macrotask before
// ShouldYield trips.
const defaultFrameInterval = 5 * time.Millisecond

// SystemHost is the production Host: real monotonic time, a dedicated
// goroutine draining a FIFO macrotask channel, and time.AfterFunc
// timeouts. Each macrotask gets a frame-interval deadline; ShouldYield
// trips once the deadline passes.
type SystemHost struct {
	origin        time.Time
	frameInterval time.Duration
	deadline      atomic.Int64 // nanoseconds since origin

	mu     sync.Mutex
	queue  chan func()
	closed bool
}

// SystemHostOption configures a SystemHost.
type SystemHostOption func(*SystemHost)

// WithFrameInterval overrides the per-slice budget.
func WithFrameInterval(d time.Duration) SystemHostOption {
	return func(h *SystemHost) {
		h.frameInterval = d
	}
}

// NewSystemHost starts the macrotask goroutine. Callers must Close the
// host when done with it.
func NewSystemHost(opts ...SystemHostOption) *SystemHost {
	h := &SystemHost{
		origin:        time.Now(),
		frameInterval: defaultFrameInterval,
		// Unbounded behavior is not needed: the scheduler keeps at most one
		// pending host callback, plus timer promotions.
		queue: make(chan func(), 128),
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.run()
	return h
}

func (h *SystemHost) run() {
	for fn := range h.queue {
		h.deadline.Store(int64(h.Now() + h.frameInterval))
		fn()
	}
}

// Now implements Host.
func (h *SystemHost) Now() time.Duration {
	return time.Since(h.origin)
}

// ShouldYield implements Host.
func (h *SystemHost) ShouldYield() bool {
	return int64(h.Now()) >= h.deadline.Load()
}

// ScheduleMacrotask implements Host. Tasks scheduled after Close are
// dropped.
func (h *SystemHost) ScheduleMacrotask(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.queue <- fn
}

// ScheduleTimeout implements Host.
func (h *SystemHost) ScheduleTimeout(fn func(), delay time.Duration) TimerHandle {
	// Route through the macrotask queue so timer callbacks observe the
	// same single-goroutine discipline as flushes.
	return time.AfterFunc(delay, func() {
		h.ScheduleMacrotask(fn)
	})
}

// CancelTimeout implements Host.
func (h *SystemHost) CancelTimeout(handle TimerHandle) {
	if t, ok := handle.(*time.Timer); ok && t != nil {
		t.Stop()
	}
}

// Close stops the macrotask goroutine. Pending macrotasks still drain.
func (h *SystemHost) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.queue)
}
