package main

import (
	"errors"
	"os"

	fileloader "github.com/alnah/go-fileloader"
	"github.com/alnah/go-fileloader/internal/config"
	"github.com/alnah/go-fileloader/internal/hostpage"
	"github.com/alnah/go-fileloader/internal/logging"
	"github.com/alnah/go-fileloader/internal/rodhost"
)

// Exit codes for the fileloader CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126,
// and 130 for a forced interrupt.
const (
	ExitSuccess    = 0 // Every resource loaded
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied
	ExitBrowser    = 4 // Browser/Chrome errors
	ExitResources  = 5 // At least one resource failed to load
	ExitIncomplete = 6 // A batch timed out with pending resources

	// ExitInterrupted is used when a second signal arrives before open
	// pages have closed. 128 + SIGINT, as shells report it.
	ExitInterrupted = 130
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrBatchIncomplete) {
		return ExitIncomplete
	}
	if errors.Is(err, ErrResourcesFailed) {
		return ExitResources
	}

	// Browser errors (exit 4)
	if errors.Is(err, rodhost.ErrBrowserConnect) ||
		errors.Is(err, rodhost.ErrPageCreate) ||
		errors.Is(err, rodhost.ErrPageLoad) ||
		errors.Is(err, rodhost.ErrScript) ||
		errors.Is(err, fileloader.ErrNoSignalSupport) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, hostpage.ErrUnsupportedPage) {
		return ExitUsage
	}

	return ExitGeneral
}
