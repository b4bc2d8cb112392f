package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds output verbosity flags.
type commonFlags struct {
	quiet   bool
	verbose bool
	json    bool
}

// browserFlags holds headless browser flags.
type browserFlags struct {
	bin       string
	noSandbox bool
}

// logFlags holds diagnostic logging flags.
type logFlags struct {
	level  string
	format string
}

// cliFlags holds every flag of the fileloader command.
type cliFlags struct {
	common  commonFlags
	browser browserFlags
	log     logFlags
	configs []string // Each manifest is one batch
	url     string   // Host page URL
	page    string   // Host page source (.md or .html)
	timeout string   // Per-batch deadline, e.g. 30s
	workers int
	dryRun  bool
	version bool
}

// addCommonFlags adds output flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show failures")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and debug logs")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
}

// addBrowserFlags adds browser flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome binary (default: ROD_BROWSER_BIN or managed)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (Docker/CI)")
}

// addLogFlags adds logging flags to a FlagSet.
func addLogFlags(fs *flag.FlagSet, f *logFlags) {
	fs.StringVar(&f.level, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.format, "log-format", "", "log format: console, json")
}

// newFlagSet builds the FlagSet and binds it to f.
func newFlagSet(f *cliFlags, usage io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("fileloader", flag.ContinueOnError)
	fs.SetOutput(usage)

	fs.StringArrayVarP(&f.configs, "config", "c", nil, "manifest name or path (repeatable)")
	fs.StringVar(&f.url, "url", "", "host page URL")
	fs.StringVar(&f.page, "page", "", "host page file (.md or .html)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-batch deadline (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent batches (0 = auto)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "check files against an in-memory document, no browser")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	addCommonFlags(fs, &f.common)
	addBrowserFlags(fs, &f.browser)
	addLogFlags(fs, &f.log)

	fs.Usage = func() {
		fmt.Fprintf(usage, "Usage: fileloader [flags] [FILE...]\n\n")
		fmt.Fprintf(usage, "Injects .js and .css files into a host page and reports which loaded.\n\n")
		fmt.Fprintf(usage, "Flags:\n%s", fs.FlagUsages())
	}
	return fs
}

// parseFlags parses args (without the program name) and returns positional args.
func parseFlags(args []string, usage io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f, usage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return f, fs.Args(), nil
}
