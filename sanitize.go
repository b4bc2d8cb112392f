package fileloader

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Sanitize turns arbitrary caller input into a usable Request.
//
// files may be nil, a []string, or any other slice or array; only string
// elements are kept, in order, and every other element is dropped with a
// warning naming its index. Anything that is not a sequence becomes an
// empty list.
//
// callbacks may be nil, a Callbacks, a *Callbacks, or any map with string
// keys holding slots by name (see SlotFileLoaded, SlotFilesLoaded, SlotError).
// Invalid slots fall back to no-ops; see SanitizeCallbacks.
//
// Sanitize never fails. Diagnostics go to logger, which may be nil.
func Sanitize(files, callbacks any, logger *zap.Logger) Request {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Request{
		Files:     sanitizeFiles(files, logger),
		Callbacks: SanitizeCallbacks(callbacks, logger),
	}
}

// SanitizeCallbacks resolves every callback slot to a callable function.
// A slot holding a value of the wrong function type is replaced by a no-op
// and reported; a missing or nil slot is replaced silently. A value that is
// not a callback set at all yields the all-no-op set and a warning.
func SanitizeCallbacks(callbacks any, logger *zap.Logger) Callbacks {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cb := callbacks.(type) {
	case nil:
		return fallbackCallbacks()
	case Callbacks:
		return fillCallbacks(cb)
	case *Callbacks:
		if cb == nil {
			return fallbackCallbacks()
		}
		return fillCallbacks(*cb)
	case map[string]any:
		return callbacksFromMap(cb, logger)
	}

	if m, ok := slotMap(callbacks); ok {
		return callbacksFromMap(m, logger)
	}
	logger.Warn("callbacks are not a callback set, using no-ops",
		zap.String("type", fmt.Sprintf("%T", callbacks)))
	return fallbackCallbacks()
}

// slotMap copies the slot entries of any map keyed by strings, such as
// map[string]func(Result), so each slot can be checked on its own.
func slotMap(callbacks any) (map[string]any, bool) {
	v := reflect.ValueOf(callbacks)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	keyType := v.Type().Key()
	out := make(map[string]any, 3)
	for _, slot := range []string{SlotFileLoaded, SlotFilesLoaded, SlotError} {
		val := v.MapIndex(reflect.ValueOf(slot).Convert(keyType))
		if !val.IsValid() {
			continue
		}
		out[slot] = val.Interface()
	}
	return out, true
}

// sanitizeFiles keeps the string elements of a sequence.
func sanitizeFiles(files any, logger *zap.Logger) []string {
	switch f := files.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(f))
		copy(out, f)
		return out
	}

	v := reflect.ValueOf(files)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		logger.Warn("file list is not a sequence, using an empty list",
			zap.String("type", fmt.Sprintf("%T", files)))
		return []string{}
	}

	out := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Interface && !elem.IsNil() {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.String {
			out = append(out, elem.String())
			continue
		}
		logger.Warn("dropping file entry that is not a string",
			zap.Int("index", i),
			zap.String("type", typeName(elem)))
	}
	return out
}

// typeName reports the dynamic type of a sequence element for diagnostics.
func typeName(v reflect.Value) string {
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return "nil"
	}
	return v.Type().String()
}

// fillCallbacks replaces nil slots of a typed callback set with no-ops.
func fillCallbacks(cb Callbacks) Callbacks {
	out := fallbackCallbacks()
	if cb.OnFileLoaded != nil {
		out.OnFileLoaded = cb.OnFileLoaded
	}
	if cb.OnFilesLoaded != nil {
		out.OnFilesLoaded = cb.OnFilesLoaded
	}
	if cb.OnError != nil {
		out.OnError = cb.OnError
	}
	return out
}

// callbacksFromMap resolves each slot of a map-shaped callback set independently.
func callbacksFromMap(m map[string]any, logger *zap.Logger) Callbacks {
	out := fallbackCallbacks()

	if fn, ok := resultSlot(m, SlotFileLoaded, logger); ok {
		out.OnFileLoaded = fn
	}
	if fn, ok := resultSlot(m, SlotError, logger); ok {
		out.OnError = fn
	}

	switch fn := m[SlotFilesLoaded].(type) {
	case nil:
	case func():
		if fn != nil {
			out.OnFilesLoaded = fn
		}
	default:
		warnSlot(logger, SlotFilesLoaded, fn)
	}

	return out
}

// resultSlot extracts a per-file callback from a map-shaped callback set.
func resultSlot(m map[string]any, slot string, logger *zap.Logger) (func(Result), bool) {
	switch fn := m[slot].(type) {
	case nil:
		return nil, false
	case func(Result):
		return fn, fn != nil
	default:
		warnSlot(logger, slot, fn)
		return nil, false
	}
}

func warnSlot(logger *zap.Logger, slot string, value any) {
	logger.Warn("callback is not a function of the expected type, using a no-op",
		zap.String("slot", slot),
		zap.String("type", fmt.Sprintf("%T", value)))
}
