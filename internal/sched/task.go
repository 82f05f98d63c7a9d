package sched

import "time"

// Callback is one unit of schedulable work. didTimeout reports whether the
// task's expiration had already passed when the work loop reached it.
//
// A non-nil return value is a continuation: the task keeps its place in
// the ready queue under its original expiration and the continuation runs
// on a later slice. A nil return completes the task. Callbacks that want
// to cooperate check the host's yield predicate and return a continuation
// instead of running long.
type Callback func(didTimeout bool) Callback

// Task is a scheduled unit of work. Two tasks never share identity;
// ordering is by sortIndex (expiration time while ready, start time while
// delayed) with the insertion-order id breaking ties.
type Task struct {
	id             int64
	callback       Callback
	priority       PriorityLevel
	startTime      time.Duration
	expirationTime time.Duration
	sortIndex      time.Duration
}

// Priority returns the level the task was scheduled with.
func (t *Task) Priority() PriorityLevel { return t.priority }

// lessTask orders tasks by (sortIndex, id) so the heap stays stable for
// equal sort indices.
func lessTask(a, b *Task) bool {
	if a.sortIndex != b.sortIndex {
		return a.sortIndex < b.sortIndex
	}
	return a.id < b.id
}
