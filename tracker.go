package fileloader

import "sync/atomic"

// Tracker counts the outstanding loads of one batch and runs its
// aggregate callback exactly once when the count reaches zero.
//
// A Tracker is owned by a single batch. It is safe for concurrent use.
type Tracker struct {
	remaining atomic.Int64
	drained   atomic.Bool
	onDrained func()
}

// NewTracker returns a tracker in the counting state with n outstanding loads.
// It does not drain on its own when n is zero; call Drain for that.
func NewTracker(n int, onDrained func()) *Tracker {
	if onDrained == nil {
		onDrained = noop
	}
	t := &Tracker{onDrained: onDrained}
	t.remaining.Store(int64(n))
	return t
}

// Tick records one resolved load (success or error). The tick that brings
// the count to zero drains the tracker. Ticks after that are no-ops.
// Tick on a nil tracker does nothing.
func (t *Tracker) Tick() {
	if t == nil || t.drained.Load() {
		return
	}
	if t.remaining.Add(-1) <= 0 {
		t.Drain()
	}
}

// Drain moves the tracker to its terminal state and runs the aggregate
// callback if this is the first transition.
func (t *Tracker) Drain() {
	if t == nil || !t.drained.CompareAndSwap(false, true) {
		return
	}
	t.remaining.Store(0)
	t.onDrained()
}

// Remaining returns the number of loads still outstanding.
func (t *Tracker) Remaining() int {
	if t == nil {
		return 0
	}
	return int(max(t.remaining.Load(), 0))
}

// Drained reports whether the aggregate callback has fired.
func (t *Tracker) Drained() bool {
	return t != nil && t.drained.Load()
}
