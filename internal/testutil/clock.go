package testutil

import (
	"sort"
	"sync"
	"time"
)

// ManualClock is a deterministic timer service for tests.
//
// AfterFunc records the callback instead of arming a real timer; Advance
// moves virtual time forward and runs every due callback synchronously on
// the caller's goroutine, in due-time order (ties in scheduling order).
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
// Callbacks run without the mutex held, so they may schedule new timers.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*ManualTimer
}

// ManualTimer is a callback scheduled on a ManualClock.
type ManualTimer struct {
	clock   *ManualClock
	at      time.Duration
	seq     int
	f       func()
	fired   bool
	stopped bool
}

// NewManualClock creates a clock at virtual time 0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc schedules f to run once virtual time reaches now+d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) *ManualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &ManualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer. Returns false if it already fired or was stopped.
func (t *ManualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves virtual time forward by d and runs due callbacks.
// Returns the number of callbacks run.
func (c *ManualClock) Advance(d time.Duration) int {
	c.mu.Lock()
	c.now += d
	var due []*ManualTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.f()
	}
	return len(due)
}

// Now returns the current virtual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
