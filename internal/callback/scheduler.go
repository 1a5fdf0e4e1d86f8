package callback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultDelay is the time between Register and the fire it schedules.
	DefaultDelay = 3000 * time.Millisecond

	// DefaultPayload is the message passed to fired listeners.
	DefaultPayload = "System event triggered!"
)

// ErrClosed is returned by Register after Close.
var ErrClosed = errors.New("callback: scheduler closed")

// Timer is a scheduled fire that may be stopped before it runs.
// *time.Timer satisfies it.
type Timer interface {
	// Stop prevents the fire. Returns false if it already ran or is running.
	Stop() bool
}

// AfterFunc schedules f to run once after d on its own goroutine.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the fire delay. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithPayload sets the message passed to fired listeners.
func WithPayload(payload string) Option {
	return func(s *Scheduler) {
		s.payload = payload
	}
}

// WithAfterFunc replaces the timer service (tests use a manual one).
func WithAfterFunc(after AfterFunc) Option {
	return func(s *Scheduler) {
		if after != nil {
			s.after = after
		}
	}
}

// WithIDFunc replaces the registration ID generator.
func WithIDFunc(newID func() string) Option {
	return func(s *Scheduler) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithSlot shares an existing slot instead of allocating one.
func WithSlot(slot *Slot) Option {
	return func(s *Scheduler) {
		if slot != nil {
			s.slot = slot
		}
	}
}

// Scheduler is the asynchronous delivery path: a listener slot plus one
// timer per registration.
//
// Thread-safety: all methods are safe for concurrent use. The mutex guards
// the pending-timer bookkeeping only; the slot is accessed atomically.
type Scheduler struct {
	slot    *Slot
	delay   time.Duration
	payload string
	after   AfterFunc
	newID   func() string

	mu       sync.Mutex
	pending  map[string]Timer
	closed   bool
	inflight int
	idle     chan struct{} // closed when inflight drops to 0

	fired   atomic.Int64
	skipped atomic.Int64
}

// NewScheduler creates a scheduler with an empty slot, DefaultDelay and
// DefaultPayload.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		slot:    &Slot{},
		delay:   DefaultDelay,
		payload: DefaultPayload,
		after:   stdAfterFunc,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
		pending: make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores listener in the slot, overwriting any previous occupant,
// and schedules one fire after the configured delay. Earlier pending fires
// stay scheduled and will read the new occupant.
//
// After Close the listener is still stored, but nothing is scheduled and
// ErrClosed is returned.
func (s *Scheduler) Register(listener Func) (string, error) {
	s.slot.Store(listener)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	id := s.newID()
	if s.inflight == 0 {
		s.idle = make(chan struct{})
	}
	s.inflight++
	s.pending[id] = s.after(s.delay, func() { s.fire(id) })

	slog.Debug("listener registered",
		"registration_id", id,
		"delay", s.delay,
		"pending", len(s.pending),
	)
	return id, nil
}

// fire runs on the timer goroutine. It delivers to whatever occupies the
// slot now; an empty slot is not an error.
func (s *Scheduler) fire(id string) {
	s.mu.Lock()
	if _, ok := s.pending[id]; !ok {
		// Stopped by Close, which already released it.
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.release()
		s.mu.Unlock()
	}()

	listener := s.slot.Load()
	if listener == nil {
		s.skipped.Add(1)
		slog.Debug("fire skipped: slot empty", "registration_id", id)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("listener panicked", "registration_id", id, "panic", r)
		}
	}()

	s.fired.Add(1)
	listener(s.payload)
	slog.Debug("listener fired", "registration_id", id)
}

// Slot returns the scheduler's listener slot.
func (s *Scheduler) Slot() *Slot {
	return s.slot
}

// Delay returns the configured fire delay.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Pending returns the number of scheduled fires that have not run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Fired returns how many fires delivered to a listener.
func (s *Scheduler) Fired() int64 {
	return s.fired.Load()
}

// Skipped returns how many fires found the slot empty.
func (s *Scheduler) Skipped() int64 {
	return s.skipped.Load()
}

// Drain blocks until every scheduled fire has run or been dropped by Close,
// or until ctx is done.
func (s *Scheduler) Drain(ctx context.Context) error {
	s.mu.Lock()
	if s.inflight == 0 {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release marks one scheduled fire as finished. Caller holds s.mu.
func (s *Scheduler) release() {
	s.inflight--
	if s.inflight == 0 {
		close(s.idle)
		s.idle = nil
	}
}

// Close stops all pending timers and rejects further scheduling. It returns
// the number of fires that were dropped. Fires already running complete.
// Close is idempotent.
func (s *Scheduler) Close() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	dropped := 0
	for id, t := range s.pending {
		if t.Stop() {
			delete(s.pending, id)
			s.release()
			dropped++
		}
	}

	if dropped > 0 {
		slog.Info("scheduler closed, pending fires dropped", "dropped", dropped)
	}
	return dropped
}
