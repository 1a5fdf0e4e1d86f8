package callback

import "sync/atomic"

// Slot holds at most one listener.
//
// Store and Load are single atomic reference operations; there is no lock
// and no ordering between an overwrite and a concurrent Load beyond "Load
// returns whatever is there". A Slot is never cleared by the scheduler.
type Slot struct {
	p atomic.Pointer[Func]
}

// Store replaces the occupant. Storing nil empties the slot.
func (s *Slot) Store(listener Func) {
	if listener == nil {
		s.p.Store(nil)
		return
	}
	s.p.Store(&listener)
}

// Load returns the current occupant, or nil.
func (s *Slot) Load() Func {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return nil
}
