package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeHost_MacrotasksRunFIFO(t *testing.T) {
	h := NewFakeHost()

	var order []int
	h.ScheduleMacrotask(func() { order = append(order, 1) })
	h.ScheduleMacrotask(func() { order = append(order, 2) })
	h.ScheduleMacrotask(func() { order = append(order, 3) })

	require.Equal(t, 3, h.PendingMacrotasks())
	h.RunUntilIdle(10)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, h.PendingMacrotasks())
}

func TestFakeHost_RunNextMacrotask_Empty(t *testing.T) {
	h := NewFakeHost()
	assert.False(t, h.RunNextMacrotask())
}

func TestFakeHost_TimersFireInDeadlineOrder(t *testing.T) {
	h := NewFakeHost()

	var order []string
	h.ScheduleTimeout(func() { order = append(order, "late") }, 20*time.Millisecond)
	h.ScheduleTimeout(func() { order = append(order, "early") }, 5*time.Millisecond)

	h.AdvanceTime(30 * time.Millisecond)
	assert.Equal(t, []string{"early", "late"}, order)
}

func TestFakeHost_TimerNotDueDoesNotFire(t *testing.T) {
	h := NewFakeHost()

	fired := false
	h.ScheduleTimeout(func() { fired = true }, 10*time.Millisecond)

	h.AdvanceTime(5 * time.Millisecond)
	assert.False(t, fired)

	h.AdvanceTime(5 * time.Millisecond)
	assert.True(t, fired)
}

func TestFakeHost_CancelTimeout(t *testing.T) {
	h := NewFakeHost()

	fired := false
	handle := h.ScheduleTimeout(func() { fired = true }, 10*time.Millisecond)
	h.CancelTimeout(handle)

	h.AdvanceTime(20 * time.Millisecond)
	assert.False(t, fired)
}

func TestFakeHost_ShouldYieldScripted(t *testing.T) {
	h := NewFakeHost()
	assert.False(t, h.ShouldYield())

	h.SetShouldYield(true)
	assert.True(t, h.ShouldYield())
}
