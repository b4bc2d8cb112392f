package rodhost

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	fileloader "github.com/alnah/go-fileloader"
)

// ErrForeignElement is returned for elements created by another document.
var ErrForeignElement = errors.New("element does not belong to this page")

// ErrScript wraps failures of the in-page helpers.
var ErrScript = errors.New("page script failed")

// signalBinding is the window function elements call when they settle.
const signalBinding = "__fileloaderSignal"

// The page keeps created elements in a registry so Go can refer to them by
// id across Eval calls.
const (
	createScript = `(tag, attrs, async) => {
	const reg = window.__fileloader || (window.__fileloader = { seq: 0, els: {} });
	const el = document.createElement(tag);
	for (const [name, value] of attrs) el.setAttribute(name, value);
	if (async) el.async = true;
	const id = ++reg.seq;
	reg.els[id] = el;
	return id;
}`

	listenScript = `(id, event, binding) => {
	const el = window.__fileloader.els[id];
	el.addEventListener(event, () => window[binding]({ id: id, event: event }));
}`

	appendScript = `(id) => {
	document.head.appendChild(window.__fileloader.els[id]);
}`
)

// Document is a page in the browser. It implements fileloader.Document
// and fileloader.EventListenerHost.
type Document struct {
	page   *rod.Page
	stop   func() error
	logger *zap.Logger

	mu       sync.Mutex
	handlers map[handlerKey][]func()
}

type handlerKey struct {
	id    int
	event string
}

var (
	_ fileloader.Document          = (*Document)(nil)
	_ fileloader.EventListenerHost = (*Document)(nil)
)

func newDocument(page *rod.Page, logger *zap.Logger) (*Document, error) {
	d := &Document{
		page:     page,
		logger:   logger,
		handlers: make(map[handlerKey][]func()),
	}
	stop, err := page.Expose(signalBinding, d.receive)
	if err != nil {
		return nil, fmt.Errorf("%w: exposing signal binding: %v", ErrScript, err)
	}
	d.stop = stop
	return d, nil
}

// element is a handle to a page element.
type element struct {
	doc  *Document
	id   int
	spec fileloader.ElementSpec
}

func (e *element) Spec() fileloader.ElementSpec { return e.spec }

// CreateElement creates a detached element in the page.
func (d *Document) CreateElement(spec fileloader.ElementSpec) (fileloader.Element, error) {
	attrs := make([][2]string, 0, 3)
	for _, a := range spec.Attributes() {
		attrs = append(attrs, [2]string{a.Name, a.Value})
	}

	res, err := d.page.Eval(createScript, spec.Tag, attrs, spec.Async)
	if err != nil {
		return nil, fmt.Errorf("%w: creating <%s>: %v", ErrScript, spec.Tag, err)
	}
	return &element{doc: d, id: res.Value.Int(), spec: spec}, nil
}

// AddEventListener registers fn for event on el.
func (d *Document) AddEventListener(el fileloader.Element, event string, fn func()) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}

	d.mu.Lock()
	key := handlerKey{id: e.id, event: event}
	d.handlers[key] = append(d.handlers[key], fn)
	d.mu.Unlock()

	if _, err := d.page.Eval(listenScript, e.id, event, signalBinding); err != nil {
		return fmt.Errorf("%w: listening for %s: %v", ErrScript, event, err)
	}
	return nil
}

// AppendToHead attaches el to the page head, which starts the fetch.
func (d *Document) AppendToHead(el fileloader.Element) error {
	e, err := d.own(el)
	if err != nil {
		return err
	}
	if _, err := d.page.Eval(appendScript, e.id); err != nil {
		return fmt.Errorf("%w: appending <%s>: %v", ErrScript, e.spec.Tag, err)
	}
	return nil
}

// Close stops the binding and closes the tab.
func (d *Document) Close() error {
	if d.stop != nil {
		_ = d.stop()
		d.stop = nil
	}
	return d.page.Close()
}

func (d *Document) own(el fileloader.Element) (*element, error) {
	e, ok := el.(*element)
	if !ok || e.doc != d {
		return nil, ErrForeignElement
	}
	return e, nil
}

// receive runs handlers for a signal posted by the page.
func (d *Document) receive(payload gson.JSON) (interface{}, error) {
	id, event, ok := parseSignal(payload)
	if !ok {
		d.logger.Warn("malformed signal from page", zap.String("payload", payload.JSON("", "")))
		return nil, nil
	}

	d.mu.Lock()
	fns := append([]func(){}, d.handlers[handlerKey{id: id, event: event}]...)
	d.mu.Unlock()

	d.logger.Debug("signal", zap.Int("element", id), zap.String("event", event), zap.Int("handlers", len(fns)))
	for _, fn := range fns {
		fn()
	}
	return nil, nil
}

// parseSignal decodes {id, event}.
func parseSignal(payload gson.JSON) (id int, event string, ok bool) {
	idv, hasID := payload.Gets("id")
	ev, hasEvent := payload.Gets("event")
	if !hasID || !hasEvent {
		return 0, "", false
	}
	id = idv.Int()
	event = ev.Str()
	if id <= 0 || event == "" {
		return 0, "", false
	}
	return id, event, true
}
