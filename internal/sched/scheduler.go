package sched

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler owns the two task heaps and the time-slicing loop. All
// process-wide scheduler state lives on this struct and is passed
// explicitly; there are no package-level mutable globals, which also lets
// tests run independent scheduler instances side by side.
type Scheduler struct {
	mu     sync.Mutex
	host   Host
	logger *slog.Logger

	taskIDCounter int64
	taskQueue     *minHeap[*Task] // ready, keyed by expiration time
	timerQueue    *minHeap[*Task] // delayed, keyed by start time

	currentTask     *Task
	currentPriority PriorityLevel

	isHostCallbackScheduled bool
	isHostTimeoutScheduled  bool
	isPerformingWork        bool
	timeoutHandle           TimerHandle
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for scheduler diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a scheduler bound to the given host.
func New(host Host, opts ...Option) *Scheduler {
	s := &Scheduler{
		host:            host,
		logger:          slog.New(slog.DiscardHandler),
		taskQueue:       newMinHeap(lessTask),
		timerQueue:      newMinHeap(lessTask),
		currentPriority: NormalPriority,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskOption configures a single scheduled task.
type TaskOption func(*taskConfig)

type taskConfig struct {
	delay time.Duration
}

// WithDelay keeps the task invisible to the ready queue until now+delay.
func WithDelay(d time.Duration) TaskOption {
	return func(c *taskConfig) {
		if d > 0 {
			c.delay = d
		}
	}
}

// ScheduleCallback enqueues cb at the given priority and returns a handle
// usable with CancelCallback.
//
// startTime = now + delay (default 0); expirationTime = startTime +
// timeout(level). A future startTime parks the task in the delayed queue
// keyed by startTime and, when it is the earliest pending work, arms a
// host timeout. Otherwise the task joins the ready queue keyed by its
// expiration, and a host callback is requested if none is in flight.
func (s *Scheduler) ScheduleCallback(level PriorityLevel, cb Callback, opts ...TaskOption) *Task {
	var cfg taskConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	currentTime := s.host.Now()
	startTime := currentTime + cfg.delay

	if level == NoPriority {
		level = NormalPriority
	}

	s.taskIDCounter++
	task := &Task{
		id:             s.taskIDCounter,
		callback:       cb,
		priority:       level,
		startTime:      startTime,
		expirationTime: startTime + level.Timeout(),
	}

	if startTime > currentTime {
		// Delayed task.
		task.sortIndex = startTime
		s.timerQueue.Push(task)
		if s.taskQueue.Len() == 0 && task == s.timerQueue.Peek() {
			// The new task is the earliest pending work overall.
			if s.isHostTimeoutScheduled {
				s.cancelHostTimeout()
			}
			s.requestHostTimeout(startTime - currentTime)
		}
		return task
	}

	task.sortIndex = task.expirationTime
	s.taskQueue.Push(task)
	if !s.isHostCallbackScheduled && !s.isPerformingWork {
		s.isHostCallbackScheduled = true
		s.requestHostCallback()
	}
	return task
}

// CancelCallback marks the task cancelled by nulling its callback. The
// heap entry stays put (heaps only support root extraction) and is
// discarded lazily when it surfaces. Cancelling a completed or already
// cancelled task is a no-op.
func (s *Scheduler) CancelCallback(task *Task) {
	if task == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task.callback = nil
}

// RunWithPriority runs fn synchronously with the current priority level
// pinned to level, restoring the previous level afterward even if fn
// panics. fn's results travel through its closure.
func (s *Scheduler) RunWithPriority(level PriorityLevel, fn func()) {
	s.mu.Lock()
	previous := s.currentPriority
	s.currentPriority = level
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.currentPriority = previous
		s.mu.Unlock()
	}()

	fn()
}

// CurrentPriorityLevel returns the level of the task being executed, or
// the level pinned by RunWithPriority.
func (s *Scheduler) CurrentPriorityLevel() PriorityLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPriority
}

// HasPendingWork reports whether any task is held in either queue.
func (s *Scheduler) HasPendingWork() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskQueue.Len() > 0 || s.timerQueue.Len() > 0
}

// requestHostCallback asks the host for a flush at the next macrotask
// boundary. Caller holds s.mu.
func (s *Scheduler) requestHostCallback() {
	s.host.ScheduleMacrotask(s.flushWork)
}

// requestHostTimeout arms a timer for the next delayed task. Caller holds
// s.mu.
func (s *Scheduler) requestHostTimeout(delay time.Duration) {
	s.isHostTimeoutScheduled = true
	s.timeoutHandle = s.host.ScheduleTimeout(s.handleTimeout, delay)
}

// cancelHostTimeout disarms the pending timer. Caller holds s.mu.
func (s *Scheduler) cancelHostTimeout() {
	if s.timeoutHandle != nil {
		s.host.CancelTimeout(s.timeoutHandle)
		s.timeoutHandle = nil
	}
	s.isHostTimeoutScheduled = false
}

// handleTimeout fires when the earliest delayed task becomes due. It
// promotes due tasks and either requests a flush or re-arms for the next
// delayed task.
func (s *Scheduler) handleTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isHostTimeoutScheduled = false
	s.timeoutHandle = nil

	currentTime := s.host.Now()
	s.advanceTimers(currentTime)

	if s.isHostCallbackScheduled {
		return
	}
	if s.taskQueue.Len() > 0 {
		s.isHostCallbackScheduled = true
		s.requestHostCallback()
	} else if next := s.timerQueue.Peek(); next != nil {
		s.requestHostTimeout(next.startTime - currentTime)
	}
}

// advanceTimers moves every due delayed task into the ready queue, keyed
// by its expiration. Cancelled delayed tasks are discarded on the way.
// Caller holds s.mu.
func (s *Scheduler) advanceTimers(currentTime time.Duration) {
	for {
		timer := s.timerQueue.Peek()
		if timer == nil {
			return
		}
		switch {
		case timer.callback == nil:
			s.timerQueue.Pop()
		case timer.startTime <= currentTime:
			s.timerQueue.Pop()
			timer.sortIndex = timer.expirationTime
			s.taskQueue.Push(timer)
		default:
			return
		}
	}
}

// flushWork is the host-callback entry point. It runs the work loop for
// one slice and re-arms whatever follow-up the remaining work requires.
//
// A panicking task callback must not starve the rest of the queue: the
// callback slot was already nulled before invocation, so the offender
// surfaces exactly once; flushWork re-requests a host callback for the
// remaining ready work and re-panics so the error stays observable.
func (s *Scheduler) flushWork() {
	s.mu.Lock()

	s.isHostCallbackScheduled = false
	if s.isHostTimeoutScheduled {
		// The flush supersedes any armed timer; advanceTimers covers it.
		s.cancelHostTimeout()
	}

	s.isPerformingWork = true
	previousPriority := s.currentPriority

	defer func() {
		r := recover()

		s.currentTask = nil
		s.currentPriority = previousPriority
		s.isPerformingWork = false

		if r != nil {
			s.logger.Error("task callback panicked; rescheduling flush", "panic", r)
			if s.taskQueue.Len() > 0 && !s.isHostCallbackScheduled {
				s.isHostCallbackScheduled = true
				s.requestHostCallback()
			}
			s.mu.Unlock()
			panic(r)
		}
		s.mu.Unlock()
	}()

	hasMoreWork := s.workLoop(s.host.Now())

	if hasMoreWork {
		s.isHostCallbackScheduled = true
		s.requestHostCallback()
	} else if next := s.timerQueue.Peek(); next != nil {
		s.requestHostTimeout(next.startTime - s.host.Now())
	}
}

// workLoop drains the ready queue until the slice ends. The return value
// reports whether ready work remains (which decides between another host
// callback and a timer for the next delayed task). Caller holds s.mu.
func (s *Scheduler) workLoop(initialTime time.Duration) bool {
	currentTime := initialTime
	s.advanceTimers(currentTime)
	s.currentTask = s.taskQueue.Peek()

	for s.currentTask != nil {
		if s.currentTask.expirationTime > currentTime && s.host.ShouldYield() {
			// Unexpired, and the slice is over.
			break
		}

		cb := s.currentTask.callback
		if cb != nil {
			// Null the slot first: a completed or panicked task must not
			// run again, and cancellation during execution stays advisory.
			s.currentTask.callback = nil
			s.currentPriority = s.currentTask.priority
			didTimeout := s.currentTask.expirationTime <= currentTime

			continuation := s.invoke(cb, didTimeout)

			currentTime = s.host.Now()
			if continuation != nil {
				// The task keeps its place under its original expiration.
				s.currentTask.callback = continuation
			} else if s.taskQueue.Peek() == s.currentTask {
				s.taskQueue.Pop()
			}
			s.advanceTimers(currentTime)
		} else {
			// Cancelled; discard lazily.
			s.taskQueue.Pop()
		}

		s.currentTask = s.taskQueue.Peek()
	}

	return s.currentTask != nil
}

// invoke runs a task callback with the scheduler unlocked so the callback
// can call back into the scheduler. The deferred re-lock also runs on
// panic, keeping flushWork's cleanup path valid.
func (s *Scheduler) invoke(cb Callback, didTimeout bool) Callback {
	s.mu.Unlock()
	defer s.mu.Lock()
	return cb(didTimeout)
}
