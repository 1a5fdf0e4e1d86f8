package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualClock_StartsAtZero(t *testing.T) {
	clock := NewManualClock()
	assert.Equal(t, time.Duration(0), clock.Now())
	assert.Equal(t, 0, clock.Pending())
}

func TestManualClock_RunsDueTimersOnly(t *testing.T) {
	clock := NewManualClock()
	var ran []string

	clock.AfterFunc(3*time.Second, func() { ran = append(ran, "a") })
	clock.AfterFunc(5*time.Second, func() { ran = append(ran, "b") })
	require.Equal(t, 2, clock.Pending())

	assert.Equal(t, 0, clock.Advance(2*time.Second))
	assert.Empty(t, ran)

	assert.Equal(t, 1, clock.Advance(time.Second))
	assert.Equal(t, []string{"a"}, ran)

	assert.Equal(t, 1, clock.Advance(10*time.Second))
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, 0, clock.Pending())
}

func TestManualClock_FiresOnceInDueOrder(t *testing.T) {
	clock := NewManualClock()
	var ran []string

	clock.AfterFunc(2*time.Second, func() { ran = append(ran, "late") })
	clock.AfterFunc(time.Second, func() { ran = append(ran, "early") })
	clock.AfterFunc(time.Second, func() { ran = append(ran, "early-2") })

	assert.Equal(t, 3, clock.Advance(time.Minute))
	assert.Equal(t, []string{"early", "early-2", "late"}, ran)

	assert.Equal(t, 0, clock.Advance(time.Minute), "timers fire at most once")
}

func TestManualTimer_Stop(t *testing.T) {
	clock := NewManualClock()
	ran := false

	timer := clock.AfterFunc(time.Second, func() { ran = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second Stop reports already stopped")

	clock.Advance(time.Hour)
	assert.False(t, ran)
}

func TestManualTimer_StopAfterFire(t *testing.T) {
	clock := NewManualClock()
	timer := clock.AfterFunc(time.Second, func() {})

	clock.Advance(time.Second)
	assert.False(t, timer.Stop())
}

func TestManualClock_CallbackMaySchedule(t *testing.T) {
	clock := NewManualClock()
	var ran []string

	clock.AfterFunc(time.Second, func() {
		ran = append(ran, "first")
		clock.AfterFunc(time.Second, func() { ran = append(ran, "second") })
	})

	clock.Advance(time.Second)
	assert.Equal(t, []string{"first"}, ran)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestSequentialIDs(t *testing.T) {
	gen := NewSequentialIDs("reg")
	assert.Equal(t, "reg-1", gen.Generate())
	assert.Equal(t, "reg-2", gen.Generate())

	assert.Equal(t, "id-1", NewSequentialIDs("").Generate())
}
