package fileloader

import "go.uber.org/zap"

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for validation warnings and batch
// diagnostics. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSignalMode forces one signal registration mechanism instead of
// detecting it. New fails if the host does not support it.
func WithSignalMode(mode SignalMode) Option {
	return func(l *Loader) {
		l.signalMode = mode
	}
}
