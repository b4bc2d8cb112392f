package fileloader

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestTracker_DrainsAfterN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
	}{
		{name: "single", n: 1},
		{name: "several", n: 5},
		{name: "many", n: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fired atomic.Int32
			tr := NewTracker(tt.n, func() { fired.Add(1) })

			for i := 0; i < tt.n-1; i++ {
				tr.Tick()
				if fired.Load() != 0 {
					t.Fatalf("fired after %d of %d ticks", i+1, tt.n)
				}
			}
			if got := tr.Remaining(); got != 1 {
				t.Errorf("Remaining() = %d, want 1", got)
			}

			tr.Tick()
			if got := fired.Load(); got != 1 {
				t.Errorf("fired %d times, want 1", got)
			}
			if !tr.Drained() {
				t.Error("Drained() = false, want true")
			}
		})
	}
}

func TestTracker_TicksAfterDrainAreNoops(t *testing.T) {
	t.Parallel()

	var fired int
	tr := NewTracker(2, func() { fired++ })

	for i := 0; i < 10; i++ {
		tr.Tick()
	}

	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
	if got := tr.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0 after drain", got)
	}
}

func TestTracker_ZeroDoesNotSelfDrain(t *testing.T) {
	t.Parallel()

	var fired int
	tr := NewTracker(0, func() { fired++ })
	if tr.Drained() || fired != 0 {
		t.Fatal("tracker drained at construction")
	}

	tr.Drain()
	tr.Drain()
	tr.Tick()

	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

func TestTracker_ConcurrentTicks(t *testing.T) {
	t.Parallel()

	const n = 256
	var fired atomic.Int32
	tr := NewTracker(n, func() { fired.Add(1) })

	var wg sync.WaitGroup
	// Twice as many ticks as loads: strays must not refire.
	for i := 0; i < 2*n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Tick()
		}()
	}
	wg.Wait()

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
	if got := tr.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestTracker_Nil(t *testing.T) {
	t.Parallel()

	var tr *Tracker
	tr.Tick()
	tr.Drain()
	if tr.Remaining() != 0 || tr.Drained() {
		t.Error("nil tracker should report zero remaining and not drained")
	}
}

func TestTracker_NilCallback(t *testing.T) {
	t.Parallel()

	tr := NewTracker(1, nil)
	tr.Tick()
	if !tr.Drained() {
		t.Error("Drained() = false, want true")
	}
}
