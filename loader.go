package fileloader

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Loader injects script and style resources into a host document and
// reports their completion through callbacks.
//
// A Loader holds no per-request state: every LoadFiles call gets its own
// completion tracker, so overlapping batches never interfere. It is safe
// for concurrent use when the Document is.
type Loader struct {
	doc        Document
	inject     *injector
	logger     *zap.Logger
	signalMode SignalMode
}

// New creates a Loader for doc. The signal registration mechanism is chosen
// here, once, from the capabilities doc exposes.
func New(doc Document, opts ...Option) (*Loader, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	l := &Loader{
		doc:        doc,
		logger:     zap.NewNop(),
		signalMode: SignalAuto,
	}
	for _, opt := range opts {
		opt(l)
	}

	binder, err := detectBinder(doc, l.signalMode)
	if err != nil {
		return nil, err
	}
	l.signalMode = binder.mode()
	l.inject = &injector{doc: doc, binder: binder}

	l.logger.Debug("loader ready", zap.Stringer("signal", l.signalMode))
	return l, nil
}

// Mode returns the signal registration mechanism in use.
func (l *Loader) Mode() SignalMode {
	return l.signalMode
}

// LoadFiles starts loading every file and returns immediately.
//
// Inputs are sanitized first (see Sanitize). OnFileLoaded or OnError runs
// once per sanitized file, in whatever order the host resolves them, and
// OnFilesLoaded runs exactly once after all of them. With no valid files,
// OnFilesLoaded runs before LoadFiles returns.
//
// A resource whose host never signals keeps its batch from completing;
// there is no timeout.
func (l *Loader) LoadFiles(files, callbacks any) {
	req := Sanitize(files, callbacks, l.logger)
	b := l.newBatch(req.Callbacks, len(req.Files))

	b.logger.Debug("batch started", zap.Int("files", len(req.Files)))

	if len(req.Files) == 0 {
		b.tracker.Drain()
		return
	}
	for _, file := range req.Files {
		l.load(file, b)
	}
}

// LoadFile starts loading a single file and returns immediately.
// Only callbacks are sanitized. OnFileLoaded or OnError runs once;
// OnFilesLoaded is not used since there is no batch to complete.
func (l *Loader) LoadFile(file string, callbacks any) {
	cbs := SanitizeCallbacks(callbacks, l.logger)
	l.load(file, &batch{
		callbacks: cbs,
		logger:    l.logger.With(zap.String("file", file)),
	})
}

// batch is the state shared by the files of one request.
//
// Callbacks of a batch run one at a time through run. A signal raised from
// inside a callback, such as a host resolving a sibling synchronously, is
// queued behind it instead of blocking.
type batch struct {
	mu        sync.Mutex // guards queue and running
	queue     []func()
	running   bool
	callbacks Callbacks
	tracker   *Tracker // nil in single-file mode
	logger    *zap.Logger
}

func (l *Loader) newBatch(cbs Callbacks, n int) *batch {
	b := &batch{
		callbacks: cbs,
		logger:    l.logger.With(zap.String("batch", uuid.NewString())),
	}
	b.tracker = NewTracker(n, func() {
		b.logger.Debug("batch drained")
		b.run(b.callbacks.OnFilesLoaded)
	})
	return b
}

// run executes fn after every step already queued on b. The caller that
// finds the batch idle drains the queue; any other caller only enqueues.
func (b *batch) run(fn func()) {
	b.mu.Lock()
	b.queue = append(b.queue, fn)
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		b.mu.Unlock()
		next()
		b.mu.Lock()
	}
	b.running = false
	b.mu.Unlock()
}

func (b *batch) succeed(file string) {
	b.run(func() {
		b.callbacks.OnFileLoaded(Result{File: file})
		b.tracker.Tick()
	})
}

func (b *batch) fail(file string, err error) {
	b.logger.Debug("resource failed", zap.String("file", file), zap.Error(err))
	b.run(func() {
		b.callbacks.OnError(Result{File: file, Err: err})
		b.tracker.Tick()
	})
}

// load runs the single-file path for one resource of b.
func (l *Loader) load(file string, b *batch) {
	spec, ok := NewElementSpec(file)
	if !ok {
		b.fail(file, fmt.Errorf("%w: %q", ErrUnsupportedResource, file))
		return
	}

	el, err := l.doc.CreateElement(spec)
	if err != nil {
		b.fail(file, fmt.Errorf("%w: creating %s element: %v", ErrInjectionFailed, spec.Tag, err))
		return
	}

	// One resolution per element, whatever the host delivers.
	var once sync.Once
	err = l.inject.attach(el,
		func() { once.Do(func() { b.succeed(file) }) },
		func() {
			once.Do(func() {
				b.fail(file, fmt.Errorf("%w: host reported an error for %q", ErrInjectionFailed, file))
			})
		},
	)
	if err != nil {
		once.Do(func() { b.fail(file, fmt.Errorf("%w: %v", ErrInjectionFailed, err)) })
	}
}
