package fileloader

// Category classifies a resource path by its extension.
type Category int

// Resource categories.
const (
	CategoryUnsupported Category = iota
	CategoryScript
	CategoryStyle
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategoryScript:
		return "script"
	case CategoryStyle:
		return "style"
	default:
		return "unsupported"
	}
}

// Result is the payload passed to per-file callbacks.
type Result struct {
	// File is the resource path exactly as the caller supplied it.
	File string

	// Err is nil on success. On failure it wraps ErrUnsupportedResource
	// or ErrInjectionFailed.
	Err error
}

// Callbacks holds the three notification slots of a load request.
// A nil slot is treated as absent and replaced by a no-op during sanitization.
// Callbacks of one batch never run concurrently with each other, but they
// may run on a goroutine owned by the host document.
type Callbacks struct {
	OnFileLoaded  func(Result)
	OnFilesLoaded func()
	OnError       func(Result)
}

// Callback slot names, as used in map-shaped callback sets and in warnings.
const (
	SlotFileLoaded  = "onFileLoaded"
	SlotFilesLoaded = "onFilesLoaded"
	SlotError       = "onError"
)

// Request is a sanitized load request: string-only files and a fully
// populated callback set.
type Request struct {
	Files     []string
	Callbacks Callbacks
}

func noopResult(Result) {}
func noop()             {}

// fallbackCallbacks returns the all-no-op callback set.
func fallbackCallbacks() Callbacks {
	return Callbacks{
		OnFileLoaded:  noopResult,
		OnFilesLoaded: noop,
		OnError:       noopResult,
	}
}
