package sched

import "time"

// PriorityLevel classifies how urgent a unit of work is. Higher urgency
// means a shorter starvation timeout, not a different heap ordering.
type PriorityLevel int

const (
	// NoPriority is the zero value; scheduling with it falls back to
	// NormalPriority.
	NoPriority PriorityLevel = iota
	// ImmediatePriority work is already expired when scheduled.
	ImmediatePriority
	// UserBlockingPriority work is the result of a direct interaction.
	UserBlockingPriority
	// NormalPriority is the default for update work.
	NormalPriority
	// LowPriority work may be deferred under load.
	LowPriority
	// IdlePriority work never expires by starvation.
	IdlePriority
)

// Starvation timeouts per level. Immediate's negative slack makes the task
// expired at schedule time; idle's timeout is large enough to never trip.
const (
	immediateTimeout    = -1 * time.Millisecond
	userBlockingTimeout = 250 * time.Millisecond
	normalTimeout       = 5000 * time.Millisecond
	lowTimeout          = 10000 * time.Millisecond

	// maxTimeout stays far from the time.Duration ceiling so that
	// startTime + maxTimeout cannot overflow.
	maxTimeout = time.Duration(1<<31-1) * time.Millisecond
)

// Timeout returns the slack granted to a task of this level before it
// becomes non-preemptible.
func (p PriorityLevel) Timeout() time.Duration {
	switch p {
	case ImmediatePriority:
		return immediateTimeout
	case UserBlockingPriority:
		return userBlockingTimeout
	case LowPriority:
		return lowTimeout
	case IdlePriority:
		return maxTimeout
	default:
		return normalTimeout
	}
}

// String returns the level name for logs and traces.
func (p PriorityLevel) String() string {
	switch p {
	case ImmediatePriority:
		return "immediate"
	case UserBlockingPriority:
		return "user-blocking"
	case NormalPriority:
		return "normal"
	case LowPriority:
		return "low"
	case IdlePriority:
		return "idle"
	default:
		return "none"
	}
}
