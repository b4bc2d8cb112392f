package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fileloader "github.com/alnah/go-fileloader"
	"github.com/alnah/go-fileloader/internal/fileutil"
	"github.com/alnah/go-fileloader/internal/memdom"
	"github.com/alnah/go-fileloader/internal/rodhost"
)

// HostDocument is a page a batch injects into.
type HostDocument interface {
	fileloader.Document
	Close() error
}

// pageTarget is where a batch injects: the page URL plus the directory
// its relative resources resolve against.
type pageTarget struct {
	URL     string
	BaseDir string
}

// Host opens one page per batch. Open must be safe for concurrent use.
type Host interface {
	Open(ctx context.Context, target pageTarget) (HostDocument, error)
	Close() error
}

// browserHost adapts rodhost.Browser to Host.
type browserHost struct {
	browser *rodhost.Browser
}

var _ Host = (*browserHost)(nil)

func (h *browserHost) Open(ctx context.Context, target pageTarget) (HostDocument, error) {
	doc, err := h.browser.Open(ctx, target.URL)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (h *browserHost) Close() error { return h.browser.Close() }

// dryRunHost loads into in-memory documents. A resource loads when it is a
// remote URL or an existing file under the page's base directory.
type dryRunHost struct{}

var _ Host = dryRunHost{}

// dryRunDocument gives memdom documents the Close the CLI expects.
type dryRunDocument struct {
	*memdom.Document
}

func (dryRunDocument) Close() error { return nil }

func (dryRunHost) Open(ctx context.Context, target pageTarget) (HostDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := target.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		base = wd
	}
	doc := memdom.New(memdom.WithResolver(func(ref string) memdom.Outcome {
		return resolveLocal(base, ref)
	}))
	return dryRunDocument{Document: doc}, nil
}

func (dryRunHost) Close() error { return nil }

// resolveLocal decides a dry-run outcome for ref.
func resolveLocal(base, ref string) memdom.Outcome {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//") {
		return memdom.Loaded
	}
	path := ref
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	if fileutil.FileExists(path) {
		return memdom.Loaded
	}
	return memdom.Failed
}

// newHost returns the Host for s.
func newHost(s *settings, env *Environment) (Host, error) {
	if s.dryRun {
		return dryRunHost{}, nil
	}
	browser, err := rodhost.Launch(rodhost.Options{
		Bin:       s.browser.Bin,
		NoSandbox: s.browser.NoSandbox,
		Logger:    env.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &browserHost{browser: browser}, nil
}
