// Package callback implements the two callback delivery paths of the bridge.
//
// Synchronous path: a Func travels with the call (see WithCallback) and the
// callable invokes it in-line, at most once, before returning.
//
// Asynchronous path: Scheduler owns a single-slot register (Slot) and a
// timer service. Register overwrites the slot and schedules one fire after
// a fixed delay. A fire reads whatever listener occupies the slot at fire
// time, not at registration time:
//
//	Register(a)  -> slot=a, timer#1 pending
//	Register(b)  -> slot=b, timer#1 + timer#2 pending
//	timer#1 fires -> b("System event triggered!")
//	timer#2 fires -> b("System event triggered!")
//
// Overlapping registrations are not coalesced; each timer fires exactly once
// unless the scheduler is closed first. Close drops pending fires and
// reports how many were lost; Drain waits for them.
package callback
