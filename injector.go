package fileloader

import "fmt"

// injector attaches elements to the host head with completion signals wired.
type injector struct {
	doc    Document
	binder signalBinder
}

// attach registers onLoad and onError on el, then appends it to the head.
// The head only ever grows; elements are never removed.
func (in *injector) attach(el Element, onLoad, onError func()) error {
	if err := in.binder.bind(el, onLoad, onError); err != nil {
		return fmt.Errorf("binding %s signals: %w", in.binder.mode(), err)
	}
	if err := in.doc.AppendToHead(el); err != nil {
		return fmt.Errorf("appending to head: %w", err)
	}
	return nil
}
