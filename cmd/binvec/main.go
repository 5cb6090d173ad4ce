// Command binvec converts binary base, query and ground-truth vector dumps
// into NumPy .npy files written next to their inputs.
//
// Usage:
//
//	binvec --path-base base.i8bin --path-query query.i32bin --path-gt gt.bin
//
// Output format, destination, compression and limits are configured through
// BINVEC_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/binvec"
)

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("binvec", flag.ContinueOnError)
	fset.SetOutput(stderr)

	var paths binvec.Paths
	fset.StringVar(&paths.Base, "path-base", "", "path to the int8 base vector dump")
	fset.StringVar(&paths.Query, "path-query", "", "path to the int32 query vector dump")
	fset.StringVar(&paths.GroundTruth, "path-gt", "", "path to the ground-truth dump")

	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(getenv)
	if err != nil {
		fmt.Fprintf(stderr, "binvec: %v\n", err)
		return 1
	}

	logger := cfg.newLogger(stderr)
	metrics := &binvec.BasicMetricsCollector{}
	opts, err := cfg.options(ctx, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "binvec: %v\n", err)
		return 1
	}
	opts = append(opts,
		binvec.WithLogger(logger),
		binvec.WithStdout(stdout),
		binvec.WithMetricsCollector(metrics),
	)

	c, err := binvec.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "binvec: %v\n", err)
		return 1
	}

	_, err = c.Run(ctx, paths)
	logTotals(ctx, logger, metrics.GetStats())
	if err != nil {
		fmt.Fprintf(stderr, "binvec: %v\n", err)
		return 1
	}
	return 0
}
