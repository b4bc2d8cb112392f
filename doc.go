// Package fileloader injects script and style resources into a host document
// and reports when each resource, and each batch, has finished loading.
//
// # Quick Start
//
// Wrap the host document, create a Loader, and load a batch:
//
//	loader, err := fileloader.New(doc, fileloader.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	loader.LoadFiles([]string{"app.js", "theme.css"}, fileloader.Callbacks{
//	    OnFileLoaded:  func(r fileloader.Result) { fmt.Println("loaded", r.File) },
//	    OnError:       func(r fileloader.Result) { fmt.Println("failed", r.File, r.Err) },
//	    OnFilesLoaded: func() { fmt.Println("all done") },
//	})
//
// LoadFiles returns immediately. Results arrive only through callbacks.
//
// # Resources
//
// The extension after the final "." (case-insensitive) selects the element:
// ".js" becomes an async script, ".css" an async stylesheet link. Anything
// else fails right away through OnError with ErrUnsupportedResource,
// without touching the document.
//
// # Input Sanitization
//
// Inputs are accepted loosely so that decoded configuration can be passed
// straight through. Non-string file entries are dropped, invalid callback
// slots become no-ops, and every correction is logged as a warning on the
// Loader's zap logger. Invalid input never aborts a batch.
//
// # Completion
//
// Every batch owns a Tracker sized to its sanitized file count. Each load or
// error ticks it once; the tick that empties it runs OnFilesLoaded, exactly
// once. An empty batch completes before LoadFiles returns. There is no
// timeout: a resource the host never signals keeps its batch open.
//
// # Host Documents
//
// A Document creates elements and appends them to the head. Completion
// signals come from whichever capability it implements, checked in this
// order when the Loader is created: EventListenerHost, AttachEventHost,
// ReadyStateHost. Use WithSignalMode to force one.
package fileloader
