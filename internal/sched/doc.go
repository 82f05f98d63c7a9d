// Package sched implements the cooperative, priority-aware task scheduler.
//
// ARCHITECTURE:
//
// Single-Threaded Cooperative Model:
// There is no parallelism. "Concurrency" means interleaving of logical
// tasks at voluntary yield points, not simultaneous execution. The
// scheduler never blocks a thread; between time slices it returns control
// to the host by scheduling another macrotask.
//
// Two Queues:
//   - taskQueue: ready tasks, min-heap ordered by expiration time
//   - timerQueue: delayed tasks, min-heap ordered by start time
//
// Both heaps break sortIndex ties by insertion-order id, so equal-urgency
// tasks run FIFO.
//
// Work Loop:
// The host invokes flushWork at a macrotask boundary. flushWork promotes
// due delayed tasks, then repeatedly runs the ready-queue root. An expired
// task runs to completion regardless of remaining budget; an unexpired
// task stops the loop once the host wants the thread back. A callback may
// return a continuation, which keeps the task in place under its original
// expiration ordering.
//
// Starvation Prevention:
// Each priority level maps to a fixed timeout. A task's expiration time is
// startTime + timeout(level); once expired it becomes non-preemptible.
// Ordering, however, is purely by the computed sort index - the priority
// level decides only when a task stops yielding.
//
// Thread-safety model:
//   - ScheduleCallback / CancelCallback / RunWithPriority: safe from any
//     goroutine
//   - flushWork and timer callbacks run on the host's macrotask goroutine
//   - task callbacks execute with no scheduler lock held, so they may
//     schedule and cancel freely
package sched
