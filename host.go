package fileloader

// Element is a host-side handle to an injectable element.
type Element interface {
	// Spec returns the description the element was created from.
	Spec() ElementSpec
}

// Document abstracts the host document the loader injects into.
// Implementations must also provide at least one of EventListenerHost,
// AttachEventHost or ReadyStateHost so completion can be observed.
type Document interface {
	// CreateElement builds a detached element from spec.
	CreateElement(spec ElementSpec) (Element, error)

	// AppendToHead attaches el to the document's single insertion point,
	// which starts the fetch of the referenced resource.
	AppendToHead(el Element) error
}

// EventListenerHost registers event listeners the modern way
// (addEventListener).
type EventListenerHost interface {
	AddEventListener(el Element, event string, fn func()) error
}

// AttachEventHost registers event handlers the legacy way
// (attachEvent with "on"-prefixed event names).
type AttachEventHost interface {
	AttachEvent(el Element, event string, fn func()) error
}

// ReadyStateHost notifies readiness-state changes of an element.
// fn receives the new state, for example "loading", "loaded" or "complete".
type ReadyStateHost interface {
	OnReadyStateChange(el Element, fn func(state string)) error
}

// SignalReporter is implemented by hosts whose signal support is only known
// at runtime. When present, a mechanism is used only if the host both
// implements its interface and reports it as supported.
type SignalReporter interface {
	SupportsSignal(mode SignalMode) bool
}
