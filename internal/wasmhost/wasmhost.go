//go:build js && wasm

// Package wasmhost exposes the browser document to the loader when the
// module is compiled to WebAssembly.
package wasmhost

import (
	"errors"
	"sync"
	"syscall/js"

	fileloader "github.com/alnah/go-fileloader"
)

// Sentinel errors for DOM access.
var (
	ErrNoDocument     = errors.New("global document is not available")
	ErrNoHead         = errors.New("document has no head")
	ErrForeignElement = errors.New("element does not belong to this document")
)

// Document wraps the global document. It implements every signal
// capability the loader knows and reports which ones the runtime supports.
type Document struct {
	doc js.Value

	mu    sync.Mutex
	funcs []js.Func
}

var (
	_ fileloader.Document          = (*Document)(nil)
	_ fileloader.EventListenerHost = (*Document)(nil)
	_ fileloader.AttachEventHost   = (*Document)(nil)
	_ fileloader.ReadyStateHost    = (*Document)(nil)
	_ fileloader.SignalReporter    = (*Document)(nil)
)

// New returns the global document.
func New() (*Document, error) {
	doc := js.Global().Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return nil, ErrNoDocument
	}
	return &Document{doc: doc}, nil
}

type element struct {
	owner *Document
	v     js.Value
	spec  fileloader.ElementSpec
}

func (e *element) Spec() fileloader.ElementSpec { return e.spec }

// CreateElement builds a detached element from an ElementSpec's tag and attributes.
func (d *Document) CreateElement(spec fileloader.ElementSpec) (fileloader.Element, error) {
	v := d.doc.Call("createElement", spec.Tag)
	for _, a := range spec.Attributes() {
		v.Call("setAttribute", a.Name, a.Value)
	}
	if spec.Async {
		v.Set("async", true)
	}
	return &element{owner: d, v: v, spec: spec}, nil
}

// AppendToHead inserts el into document.head.
func (d *Document) AppendToHead(el fileloader.Element) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}
	head := d.doc.Get("head")
	if head.IsUndefined() || head.IsNull() {
		return ErrNoHead
	}
	head.Call("appendChild", e.v)
	return nil
}

// AddEventListener uses the standard addEventListener.
func (d *Document) AddEventListener(el fileloader.Element, event string, fn func()) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}
	e.v.Call("addEventListener", event, d.wrap(func(js.Value) { fn() }))
	return nil
}

// AttachEvent uses the legacy attachEvent when present and falls back to
// assigning the on-property.
func (d *Document) AttachEvent(el fileloader.Element, event string, fn func()) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}
	f := d.wrap(func(js.Value) { fn() })
	if e.v.Get("attachEvent").Type() == js.TypeFunction {
		e.v.Call("attachEvent", event, f)
		return nil
	}
	e.v.Set(event, f)
	return nil
}

// OnReadyStateChange reports every readyState the element moves through.
func (d *Document) OnReadyStateChange(el fileloader.Element, fn func(state string)) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}
	e.v.Set("onreadystatechange", d.wrap(func(js.Value) {
		fn(e.v.Get("readyState").String())
	}))
	return nil
}

// SupportsSignal probes a scratch script element for each mechanism.
func (d *Document) SupportsSignal(mode fileloader.SignalMode) bool {
	probe := d.doc.Call("createElement", "script")
	switch mode {
	case fileloader.SignalListener:
		return probe.Get("addEventListener").Type() == js.TypeFunction
	case fileloader.SignalAttach:
		return probe.Get("attachEvent").Type() == js.TypeFunction ||
			probe.Get("onload").Type() != js.TypeUndefined
	case fileloader.SignalReadyState:
		return probe.Get("readyState").Type() == js.TypeString
	default:
		return false
	}
}

// Release frees every callback handed to the runtime. Signals arriving
// afterwards panic in the runtime, so call it only once no batch is open.
func (d *Document) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, f := range d.funcs {
		f.Release()
	}
	d.funcs = nil
}

func (d *Document) wrap(fn func(this js.Value)) js.Func {
	f := js.FuncOf(func(this js.Value, _ []js.Value) any {
		fn(this)
		return nil
	})
	d.mu.Lock()
	d.funcs = append(d.funcs, f)
	d.mu.Unlock()
	return f
}

func (d *Document) own(el fileloader.Element) (*element, error) {
	e, ok := el.(*element)
	if !ok || e.owner != d {
		return nil, ErrForeignElement
	}
	return e, nil
}
