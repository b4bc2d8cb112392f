package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-fileloader/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configureMaxProcs(os.Args[1:])

	ctx, stop := shutdownOnSignal(context.Background(), os.Stderr, func() {
		os.Exit(ExitInterrupted)
	})
	err := run(ctx, os.Args[1:], DefaultEnv())
	stop()

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(ExitSuccess)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	os.Exit(exitCodeFor(err))
}

// configureMaxProcs sets GOMAXPROCS for the container quota. Its log lines
// appear only with --verbose.
func configureMaxProcs(args []string) {
	// Parse errors are reported by run.
	flags, _, err := parseFlags(args, io.Discard)
	if err != nil || !flags.common.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
		return
	}

	logger, err := logging.New(logging.Config{Level: "debug"})
	if err != nil {
		logger = logging.Nop()
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Sugar().Infof))
}
