// Package rodhost runs the loader against a real document in headless
// Chrome driven by go-rod. Elements live in the page; their load and error
// events are routed back to Go through an exposed binding.
package rodhost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-fileloader/internal/process"
)

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect = errors.New("browser connection failed")
	ErrPageCreate     = errors.New("page creation failed")
	ErrPageLoad       = errors.New("page load failed")
	ErrClosed         = errors.New("browser closed")
)

// DefaultTimeout bounds page navigation when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures the launched browser. Empty fields fall back to the
// ROD_BROWSER_BIN, ROD_NO_SANDBOX and CI environment variables.
type Options struct {
	Bin       string
	NoSandbox bool
	Timeout   time.Duration
	Logger    *zap.Logger
}

// launchSettings is the resolved launcher configuration.
type launchSettings struct {
	bin       string
	noSandbox bool
}

// resolveSettings applies environment fallbacks. A custom binary usually
// means a container image, which needs the sandbox disabled too.
func resolveSettings(opts Options, getenv func(string) string) launchSettings {
	s := launchSettings{bin: opts.Bin, noSandbox: opts.NoSandbox}
	if s.bin == "" {
		s.bin = getenv("ROD_BROWSER_BIN")
	}
	if getenv("CI") == "true" || getenv("ROD_NO_SANDBOX") == "1" || getenv("ROD_BROWSER_BIN") != "" {
		s.noSandbox = true
	}
	return s
}

// Browser owns one Chrome process. Open may be called concurrently.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   *zap.Logger
}

// Launch starts Chrome and connects to it. Rod downloads Chromium on first
// use when no binary is configured.
func Launch(opts Options) (*Browser, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	s := resolveSettings(opts, os.Getenv)
	l := launcher.New()
	if s.bin != "" {
		l = l.Bin(s.bin)
	}
	if s.noSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		kill(l, logger)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	logger.Debug("browser launched",
		zap.String("bin", s.bin),
		zap.Bool("no_sandbox", s.noSandbox),
		zap.Int("pid", l.PID()),
	)
	return &Browser{browser: browser, launcher: l, timeout: timeout, logger: logger}, nil
}

// Open navigates a new tab to url, waits for it to load and returns it as
// a host document.
func (b *Browser) Open(ctx context.Context, url string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.browser == nil {
		return nil, ErrClosed
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrPageLoad, url, err)
	}

	doc, err := newDocument(page.Context(ctx), b.logger.With(zap.String("page", url)))
	if err != nil {
		_ = page.Close()
		return nil, err
	}
	return doc, nil
}

// Close disconnects and kills the Chrome process tree.
func (b *Browser) Close() error {
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	kill(b.launcher, b.logger)
	return err
}

// kill terminates leftover Chrome processes. Renderer children can outlive
// the CDP connection, so the whole tree is killed before cleanup.
func kill(l *launcher.Launcher, logger *zap.Logger) {
	if err := process.KillTree(l.PID()); err != nil {
		logger.Debug("killing browser process tree", zap.Error(err))
	}
	l.Cleanup()
}
