//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop open batches. Container runtimes send SIGTERM.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
