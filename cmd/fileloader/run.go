package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-fileloader/internal/config"
	"github.com/alnah/go-fileloader/internal/hints"
	"github.com/alnah/go-fileloader/internal/hostpage"
	"github.com/alnah/go-fileloader/internal/logging"
	"github.com/alnah/go-fileloader/internal/rodhost"
)

// run executes the command for args (without the program name).
func run(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "fileloader %s\n", Version)
		return nil
	}

	warnUnknownEnvVars(env.Stderr)

	s, err := resolveSettings(flags, positional, loadEnvConfig())
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: s.logLevel, Format: s.logFormat, Writer: env.Stderr})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	env.Logger = logger

	logger.Debug("settings resolved",
		zap.Int("batches", len(s.batches)),
		zap.Int("workers", s.workers),
		zap.Bool("dry_run", s.dryRun),
	)

	host, err := env.NewHost(s, env)
	if err != nil {
		return err
	}
	defer func() {
		if err := host.Close(); err != nil {
			logger.Debug("closing host", zap.Error(err))
		}
	}()

	results := runBatches(ctx, host, hostpage.NewBuilder(), s.batches, s.workers, logger)

	if s.json {
		if err := writeJSON(env.Stdout, results); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	} else {
		writeText(env.Stdout, env.Stderr, results, s.quiet, s.verbose)
	}

	return outcomeError(summarize(results), len(results))
}

// outcomeError turns a summary into the error that selects the exit code.
// Batch errors outrank pending resources, which outrank failed ones.
func outcomeError(s Summary, batches int) error {
	switch {
	case s.BatchErrors > 0:
		return fmt.Errorf("%d of %d batches failed: %w", s.BatchErrors, batches, s.FirstBatchErr)
	case s.Pending > 0:
		return fmt.Errorf("%w: %d resources pending%s", ErrBatchIncomplete, s.Pending, hints.ForTimeout(s.Pending))
	case s.Failed > 0:
		msg := fmt.Errorf("%w: %d failed", ErrResourcesFailed, s.Failed)
		if s.Unsupported > 0 {
			return fmt.Errorf("%w%s", msg, hints.ForUnsupportedResource())
		}
		return msg
	default:
		return nil
	}
}

// hintFor returns a hint for errors whose fix depends on the environment.
func hintFor(err error) string {
	switch {
	case errors.Is(err, rodhost.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, hostpage.ErrUnsupportedPage):
		return hints.ForHostPage()
	default:
		return ""
	}
}

// configNotFound adds the config hint for name to a LoadConfig error.
func configNotFound(name string, err error) error {
	if errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("loading %s: %w%s", name, err, hints.ForConfigNotFound(config.SearchPaths(name)))
	}
	return fmt.Errorf("loading %s: %w", name, err)
}
