package main

import "runtime"

// maxAutoWorkers caps the automatic worker count. Each worker drives a
// browser tab, so more rarely helps.
const maxAutoWorkers = 8

// ResolveWorkers determines how many batches run at once.
// Priority: explicit value > GOMAXPROCS-based calculation. The result never
// exceeds the number of batches and is at least 1.
func ResolveWorkers(explicit, batches int) int {
	n := explicit
	if n <= 0 {
		// GOMAXPROCS is adjusted by automaxprocs for containers.
		n = runtime.GOMAXPROCS(0) / 2
		if n > maxAutoWorkers {
			n = maxAutoWorkers
		}
	}
	if batches > 0 && n > batches {
		n = batches
	}
	if n < 1 {
		return 1
	}
	return n
}
