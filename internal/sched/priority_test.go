package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriorityLevel_TimeoutMonotonicity(t *testing.T) {
	assert.Less(t, ImmediatePriority.Timeout(), UserBlockingPriority.Timeout())
	assert.Less(t, UserBlockingPriority.Timeout(), NormalPriority.Timeout())
	assert.Less(t, NormalPriority.Timeout(), LowPriority.Timeout())
	assert.Less(t, LowPriority.Timeout(), IdlePriority.Timeout())
}

func TestPriorityLevel_ImmediateAlreadyExpired(t *testing.T) {
	assert.Negative(t, int64(ImmediatePriority.Timeout()))
}

func TestPriorityLevel_NoPriorityFallsBackToNormal(t *testing.T) {
	assert.Equal(t, NormalPriority.Timeout(), NoPriority.Timeout())
}

func TestPriorityLevel_Values(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, UserBlockingPriority.Timeout())
	assert.Equal(t, 5*time.Second, NormalPriority.Timeout())
	assert.Equal(t, 10*time.Second, LowPriority.Timeout())
}

func TestPriorityLevel_String(t *testing.T) {
	assert.Equal(t, "immediate", ImmediatePriority.String())
	assert.Equal(t, "user-blocking", UserBlockingPriority.String())
	assert.Equal(t, "normal", NormalPriority.String())
	assert.Equal(t, "low", LowPriority.String())
	assert.Equal(t, "idle", IdlePriority.String())
	assert.Equal(t, "none", NoPriority.String())
}
