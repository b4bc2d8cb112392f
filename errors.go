package fileloader

import "errors"

// Sentinel errors for loader operations.
var (
	// Per-file failures, reported through Callbacks.OnError in Result.Err.
	ErrUnsupportedResource = errors.New("unsupported resource type")
	ErrInjectionFailed     = errors.New("resource injection failed")

	// Construction errors returned by New.
	ErrNilDocument      = errors.New("host document cannot be nil")
	ErrNoSignalSupport  = errors.New("host document exposes no completion signal")
	ErrSignalModeAbsent = errors.New("host document does not support requested signal mode")
)
