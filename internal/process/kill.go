// Package process terminates the browser process tree left by a launcher.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that would target the caller's own
// process group or init.
var ErrInvalidPID = errors.New("invalid pid")

// KillTree kills pid and its children. A missing process is not an error
// worth surfacing to callers, who use it as best-effort cleanup after the
// browser connection has already been closed.
func KillTree(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return killTree(pid)
}
