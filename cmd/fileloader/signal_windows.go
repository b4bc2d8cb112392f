//go:build windows

package main

import "os"

// shutdownSignals stop open batches. SIGTERM does not exist on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
