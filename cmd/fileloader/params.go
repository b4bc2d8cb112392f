package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-fileloader/internal/config"
	"github.com/alnah/go-fileloader/internal/hostpage"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no files or manifest specified")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrResourcesFailed    = errors.New("resources failed to load")
	ErrBatchIncomplete    = errors.New("batch did not complete")
)

// argsBatchName names the batch built from positional arguments.
const argsBatchName = "args"

// batchPlan is one LoadFiles call against its own host page.
type batchPlan struct {
	Name    string
	Files   any // Raw entries; the loader sanitizes them
	URL     string
	Page    hostpage.Source
	Timeout time.Duration
}

// settings is the fully resolved CLI configuration.
type settings struct {
	batches   []batchPlan
	workers   int
	logLevel  string
	logFormat string
	browser   config.BrowserConfig
	dryRun    bool
	quiet     bool
	verbose   bool
	json      bool
}

// resolveSettings merges flags > env > config files > defaults.
func resolveSettings(flags *cliFlags, positional []string, env *envConfig) (*settings, error) {
	if flags.workers < 0 {
		return nil, fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, flags.workers)
	}

	flagTimeout, err := parseTimeout(flags.timeout)
	if err != nil {
		return nil, err
	}

	names := flags.configs
	if len(names) == 0 && env.ConfigPath != "" {
		names = []string{env.ConfigPath}
	}
	if len(names) == 0 && len(positional) == 0 {
		return nil, ErrNoInput
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	s := &settings{
		dryRun:  flags.dryRun,
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		json:    flags.common.json,
	}

	var first *config.Config
	if len(positional) > 0 {
		s.batches = append(s.batches, batchPlan{
			Name:  argsBatchName,
			Files: positional,
			Page:  hostpage.Source{BaseDir: cwd},
		})
	}
	for _, name := range names {
		cfg, err := config.LoadConfig(name)
		if err != nil {
			return nil, configNotFound(name, err)
		}
		if first == nil {
			first = cfg
		}
		s.batches = append(s.batches, planFromConfig(name, cfg))
	}
	if first == nil {
		first = config.DefaultConfig()
	}

	for i := range s.batches {
		b := &s.batches[i]
		switch {
		case flagTimeout > 0:
			b.Timeout = flagTimeout
		case env.Timeout > 0:
			b.Timeout = env.Timeout
		case b.Timeout == 0:
			b.Timeout = config.DefaultTimeout
		}
		// Host page flags replace every manifest's page.
		if flags.url != "" {
			b.URL, b.Page.Path = flags.url, ""
		} else if flags.page != "" {
			b.URL, b.Page.Path = "", flags.page
		}
	}

	s.workers = ResolveWorkers(firstPositive(flags.workers, env.Workers), len(s.batches))
	s.logLevel = firstNonEmpty(flags.log.level, env.LogLevel, first.Log.Level, config.DefaultLogLevel)
	s.logFormat = firstNonEmpty(flags.log.format, env.LogFormat, first.Log.Format, config.DefaultLogFormat)
	if flags.common.verbose && flags.log.level == "" {
		s.logLevel = "debug"
	}
	if flags.common.quiet && flags.log.level == "" {
		s.logLevel = "error"
	}

	s.browser = first.Browser
	if flags.browser.bin != "" {
		s.browser.Bin = flags.browser.bin
	}
	if flags.browser.noSandbox {
		s.browser.NoSandbox = true
	}

	return s, nil
}

// planFromConfig builds the batch for one manifest. Relative resources in
// a manifest resolve against the manifest's directory.
func planFromConfig(name string, cfg *config.Config) batchPlan {
	plan := batchPlan{
		Name:  name,
		Files: cfg.FileEntries(),
		URL:   cfg.Page.URL,
		Page: hostpage.Source{
			Path:  cfg.Page.Source,
			Title: cfg.Page.Title,
		},
	}
	if cfg.Browser.Timeout != "" {
		plan.Timeout = cfg.Timeout()
	}
	if abs, err := filepath.Abs(manifestPath(name)); err == nil {
		plan.Page.BaseDir = filepath.Dir(abs)
	}
	return plan
}

// manifestPath returns the file a config name resolved to.
func manifestPath(name string) string {
	for _, p := range config.SearchPaths(name) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}

// parseTimeout parses the --timeout flag; "" means unset.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, s)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
