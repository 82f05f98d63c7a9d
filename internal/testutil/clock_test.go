package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_StartsAtZero(t *testing.T) {
	c := NewManualClock()
	assert.Equal(t, time.Duration(0), c.Now())
}

func TestManualClock_Advance(t *testing.T) {
	c := NewManualClock()
	c.Advance(5 * time.Millisecond)
	c.Advance(10 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, c.Now())
}

func TestManualClock_Advance_NegativeIgnored(t *testing.T) {
	c := NewManualClock()
	c.Advance(5 * time.Millisecond)
	c.Advance(-3 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, c.Now())
}

func TestManualClock_Set_NeverBackward(t *testing.T) {
	c := NewManualClock()
	c.Set(20 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, c.Now())

	c.Set(10 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, c.Now(), "clock is monotonic")
}
