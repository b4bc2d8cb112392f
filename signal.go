package fileloader

import "fmt"

// SignalMode identifies how completion signals are registered on elements.
type SignalMode int

// Signal modes, in detection priority order.
const (
	SignalAuto       SignalMode = iota // detect from host capabilities
	SignalListener                     // addEventListener("load"|"error")
	SignalAttach                       // attachEvent("onload"|"onerror")
	SignalReadyState                   // readystatechange polling
)

// String returns the mode name.
func (m SignalMode) String() string {
	switch m {
	case SignalAuto:
		return "auto"
	case SignalListener:
		return "listener"
	case SignalAttach:
		return "attach"
	case SignalReadyState:
		return "readystate"
	default:
		return fmt.Sprintf("SignalMode(%d)", int(m))
	}
}

// Element events.
const (
	eventLoad  = "load"
	eventError = "error"
)

// Readiness states that mean the element finished loading.
const (
	readyStateLoaded   = "loaded"
	readyStateComplete = "complete"
)

// signalBinder registers load and error handlers on an element.
// Each implementation wraps one host capability.
type signalBinder interface {
	bind(el Element, onLoad, onError func()) error
	mode() SignalMode
}

// Compile-time interface checks.
var (
	_ signalBinder = listenerBinder{}
	_ signalBinder = attachBinder{}
	_ signalBinder = readyStateBinder{}
)

// listenerBinder uses the modern event registration.
type listenerBinder struct {
	host EventListenerHost
}

func (b listenerBinder) bind(el Element, onLoad, onError func()) error {
	if err := b.host.AddEventListener(el, eventLoad, onLoad); err != nil {
		return err
	}
	return b.host.AddEventListener(el, eventError, onError)
}

func (listenerBinder) mode() SignalMode { return SignalListener }

// attachBinder uses the legacy "on"-prefixed event registration.
type attachBinder struct {
	host AttachEventHost
}

func (b attachBinder) bind(el Element, onLoad, onError func()) error {
	if err := b.host.AttachEvent(el, "on"+eventLoad, onLoad); err != nil {
		return err
	}
	return b.host.AttachEvent(el, "on"+eventError, onError)
}

func (attachBinder) mode() SignalMode { return SignalAttach }

// readyStateBinder watches readiness changes. Readiness has no failure
// state, so onError is never called through this binder.
type readyStateBinder struct {
	host ReadyStateHost
}

func (b readyStateBinder) bind(el Element, onLoad, _ func()) error {
	return b.host.OnReadyStateChange(el, func(state string) {
		if state == readyStateLoaded || state == readyStateComplete {
			onLoad()
		}
	})
}

func (readyStateBinder) mode() SignalMode { return SignalReadyState }

// binderFor returns the binder for mode if doc supports it.
func binderFor(doc Document, mode SignalMode) (signalBinder, bool) {
	if r, ok := doc.(SignalReporter); ok && !r.SupportsSignal(mode) {
		return nil, false
	}

	switch mode {
	case SignalListener:
		if h, ok := doc.(EventListenerHost); ok {
			return listenerBinder{host: h}, true
		}
	case SignalAttach:
		if h, ok := doc.(AttachEventHost); ok {
			return attachBinder{host: h}, true
		}
	case SignalReadyState:
		if h, ok := doc.(ReadyStateHost); ok {
			return readyStateBinder{host: h}, true
		}
	}
	return nil, false
}

// detectBinder selects the binder for doc once. With SignalAuto it tries
// listener, attach and readystate in that order.
func detectBinder(doc Document, want SignalMode) (signalBinder, error) {
	if want != SignalAuto {
		b, ok := binderFor(doc, want)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSignalModeAbsent, want)
		}
		return b, nil
	}

	for _, mode := range []SignalMode{SignalListener, SignalAttach, SignalReadyState} {
		if b, ok := binderFor(doc, mode); ok {
			return b, nil
		}
	}
	return nil, ErrNoSignalSupport
}
