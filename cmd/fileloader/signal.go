package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
)

// shutdownOnSignal returns a context canceled by the first shutdown signal,
// so open batches stop waiting and their pages close. A second signal calls
// force: closing Chrome can hang, and the user asked twice.
func shutdownOnSignal(parent context.Context, stderr io.Writer, force func()) (context.Context, context.CancelFunc) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, shutdownSignals...)

	ctx, stop := watchSignals(parent, sigs, stderr, force)
	return ctx, func() {
		signal.Stop(sigs)
		stop()
	}
}

// watchSignals cancels on the first value from sigs and calls force on the
// second. stop releases the watcher; it is safe to call more than once.
func watchSignals(parent context.Context, sigs <-chan os.Signal, stderr io.Writer, force func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigs:
			fmt.Fprintf(stderr, "received %s, closing open pages (repeat to force exit)\n", sig)
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigs:
			force()
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			close(done)
			cancel()
		})
	}
}
