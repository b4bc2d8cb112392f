package main

// Signals are fed through a channel; OS delivery is not exercised.

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the watcher goroutine write while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled")
	}
}

func TestWatchSignals(t *testing.T) {
	t.Parallel()

	t.Run("starts not canceled", func(t *testing.T) {
		t.Parallel()

		ctx, stop := watchSignals(context.Background(), make(chan os.Signal), &syncBuffer{}, func() {})
		defer stop()

		select {
		case <-ctx.Done():
			t.Fatal("context should not be canceled initially")
		default:
		}
	})

	t.Run("first signal cancels and reports", func(t *testing.T) {
		t.Parallel()

		sigs := make(chan os.Signal, 1)
		var stderr syncBuffer
		ctx, stop := watchSignals(context.Background(), sigs, &stderr, func() {
			t.Error("force called after one signal")
		})
		defer stop()

		sigs <- os.Interrupt
		waitDone(t, ctx)

		if !strings.Contains(stderr.String(), "closing open pages") {
			t.Errorf("stderr = %q, want shutdown notice", stderr.String())
		}
	})

	t.Run("second signal forces exit", func(t *testing.T) {
		t.Parallel()

		sigs := make(chan os.Signal, 2)
		forced := make(chan struct{})
		ctx, stop := watchSignals(context.Background(), sigs, &syncBuffer{}, func() { close(forced) })
		defer stop()

		sigs <- os.Interrupt
		waitDone(t, ctx)
		sigs <- os.Interrupt

		select {
		case <-forced:
		case <-time.After(2 * time.Second):
			t.Fatal("force was not called on the second signal")
		}
	})

	t.Run("stop cancels and is idempotent", func(t *testing.T) {
		t.Parallel()

		ctx, stop := watchSignals(context.Background(), make(chan os.Signal), &syncBuffer{}, func() {})
		stop()
		stop()

		waitDone(t, ctx)
	})

	t.Run("inherits parent cancellation", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := watchSignals(parent, make(chan os.Signal), &syncBuffer{}, func() {})
		defer stop()

		cancel()
		waitDone(t, ctx)
	})
}

func TestShutdownOnSignal_Stop(t *testing.T) {
	t.Parallel()

	ctx, stop := shutdownOnSignal(context.Background(), &syncBuffer{}, func() {})
	stop()

	waitDone(t, ctx)
}
