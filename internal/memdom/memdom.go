// Package memdom provides an in-memory host document for the loader.
//
// It records every element appended to its head and resolves them through
// a Resolver, synchronously or on a separate goroutine. Elements left
// pending can be resolved later with Resolve. The CLI uses it for dry runs;
// tests use it to drive every signal mechanism without a browser.
package memdom

import (
	"errors"
	"fmt"
	"sync"

	fileloader "github.com/alnah/go-fileloader"
)

// Sentinel errors for memdom operations.
var (
	ErrForeignElement  = errors.New("element was not created by this document")
	ErrAlreadyAttached = errors.New("element is already attached")
)

// Outcome is the simulated result of fetching a resource.
type Outcome int

// Resource outcomes.
const (
	Pending Outcome = iota // no signal until Resolve is called
	Loaded
	Failed
)

// Resolver decides the outcome of a resource from its reference.
type Resolver func(ref string) Outcome

// AlwaysLoad resolves every resource successfully.
func AlwaysLoad(string) Outcome { return Loaded }

// NeverResolve leaves every resource pending.
func NeverResolve(string) Outcome { return Pending }

// Readiness states reported to readystatechange handlers.
const (
	StateUninitialized = "uninitialized"
	StateLoading       = "loading"
	StateLoaded        = "loaded"
)

// Compile-time interface checks.
var (
	_ fileloader.Document          = (*Document)(nil)
	_ fileloader.EventListenerHost = (*Document)(nil)
	_ fileloader.AttachEventHost   = (*Document)(nil)
	_ fileloader.ReadyStateHost    = (*Document)(nil)
	_ fileloader.SignalReporter    = (*Document)(nil)
	_ fileloader.Element           = (*Element)(nil)
)

// Document is an in-memory host document. It is safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	signals   map[fileloader.SignalMode]bool
	resolver  Resolver
	async     bool
	createErr error
	appendErr error
	head      []*Element
	created   int
}

// Option configures a Document.
type Option func(*Document)

// WithSignals restricts the signal mechanisms the document reports as
// supported. By default all three are supported.
func WithSignals(modes ...fileloader.SignalMode) Option {
	return func(d *Document) {
		d.signals = make(map[fileloader.SignalMode]bool, len(modes))
		for _, m := range modes {
			d.signals[m] = true
		}
	}
}

// WithResolver sets how appended resources resolve. Default: AlwaysLoad.
func WithResolver(r Resolver) Option {
	return func(d *Document) {
		if r != nil {
			d.resolver = r
		}
	}
}

// WithAsync delivers signals on a new goroutine instead of inside
// AppendToHead or Resolve.
func WithAsync(async bool) Option {
	return func(d *Document) { d.async = async }
}

// WithCreateError makes CreateElement fail with err.
func WithCreateError(err error) Option {
	return func(d *Document) { d.createErr = err }
}

// WithAppendError makes AppendToHead fail with err.
func WithAppendError(err error) Option {
	return func(d *Document) { d.appendErr = err }
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		signals: map[fileloader.SignalMode]bool{
			fileloader.SignalListener:   true,
			fileloader.SignalAttach:     true,
			fileloader.SignalReadyState: true,
		},
		resolver: AlwaysLoad,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Element is an element created by a Document.
type Element struct {
	doc      *Document
	spec     fileloader.ElementSpec
	mu       sync.Mutex
	handlers map[string][]func()
	ready    []func(string)
	state    string
	attached bool
	resolved bool
}

// Spec returns the description the element was created from.
func (e *Element) Spec() fileloader.ElementSpec { return e.spec }

// State returns the element's readiness state.
func (e *Element) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SupportsSignal reports whether mode is enabled for this document.
func (d *Document) SupportsSignal(mode fileloader.SignalMode) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.signals[mode]
}

// CreateElement builds a detached element.
func (d *Document) CreateElement(spec fileloader.ElementSpec) (fileloader.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.created++
	return &Element{
		doc:      d,
		spec:     spec,
		handlers: make(map[string][]func()),
		state:    StateUninitialized,
	}, nil
}

// AddEventListener registers fn for "load" or "error".
func (d *Document) AddEventListener(el fileloader.Element, event string, fn func()) error {
	return d.addHandler(el, event, fn)
}

// AttachEvent registers fn for "onload" or "onerror".
func (d *Document) AttachEvent(el fileloader.Element, event string, fn func()) error {
	return d.addHandler(el, event, fn)
}

// OnReadyStateChange registers fn for readiness changes.
func (d *Document) OnReadyStateChange(el fileloader.Element, fn func(state string)) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.ready = append(e.ready, fn)
	e.mu.Unlock()
	return nil
}

func (d *Document) addHandler(el fileloader.Element, event string, fn func()) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.handlers[event] = append(e.handlers[event], fn)
	e.mu.Unlock()
	return nil
}

func (d *Document) own(el fileloader.Element) (*Element, error) {
	e, ok := el.(*Element)
	if !ok || e.doc != d {
		return nil, ErrForeignElement
	}
	return e, nil
}

// AppendToHead attaches el and resolves it through the document's Resolver.
func (d *Document) AppendToHead(el fileloader.Element) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}

	d.mu.Lock()
	if d.appendErr != nil {
		d.mu.Unlock()
		return d.appendErr
	}
	e.mu.Lock()
	if e.attached {
		e.mu.Unlock()
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, e.spec.Ref)
	}
	e.attached = true
	e.state = StateLoading
	e.mu.Unlock()
	d.head = append(d.head, e)
	resolver := d.resolver
	d.mu.Unlock()

	if outcome := resolver(e.spec.Ref); outcome != Pending {
		d.dispatch(e, outcome)
	}
	return nil
}

// Resolve settles every attached, still pending element referencing ref.
// Returns how many elements were resolved.
func (d *Document) Resolve(ref string, ok bool) int {
	outcome := Failed
	if ok {
		outcome = Loaded
	}

	d.mu.Lock()
	var targets []*Element
	for _, e := range d.head {
		e.mu.Lock()
		if e.spec.Ref == ref && !e.resolved {
			targets = append(targets, e)
		}
		e.mu.Unlock()
	}
	d.mu.Unlock()

	n := 0
	for _, e := range targets {
		if d.dispatch(e, outcome) {
			n++
		}
	}
	return n
}

// dispatch fires the signals for outcome once per element.
// Readiness handlers see "loaded" for failures too, matching hosts where
// readiness cannot tell a failed fetch from a successful one.
func (d *Document) dispatch(e *Element, outcome Outcome) bool {
	e.mu.Lock()
	if e.resolved {
		e.mu.Unlock()
		return false
	}
	e.resolved = true
	e.state = StateLoaded

	var fns []func()
	if outcome == Loaded {
		fns = append(fns, e.handlers["load"]...)
		fns = append(fns, e.handlers["onload"]...)
	} else {
		fns = append(fns, e.handlers["error"]...)
		fns = append(fns, e.handlers["onerror"]...)
	}
	ready := append([]func(string){}, e.ready...)
	e.mu.Unlock()

	fire := func() {
		for _, fn := range ready {
			fn(StateLoaded)
		}
		for _, fn := range fns {
			fn()
		}
	}

	d.mu.Lock()
	async := d.async
	d.mu.Unlock()
	if async {
		go fire()
	} else {
		fire()
	}
	return true
}

// Head returns the specs of the head's children, in append order.
func (d *Document) Head() []fileloader.ElementSpec {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]fileloader.ElementSpec, len(d.head))
	for i, e := range d.head {
		out[i] = e.spec
	}
	return out
}

// Created returns how many elements were created.
func (d *Document) Created() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

// Pending returns the references of attached elements that have not resolved.
func (d *Document) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, e := range d.head {
		e.mu.Lock()
		if !e.resolved {
			out = append(out, e.spec.Ref)
		}
		e.mu.Unlock()
	}
	return out
}
