// Command binvec-extend builds a longer, skewed query workload from a query
// dump and its ground truth.
//
// Usage:
//
//	binvec-extend -n 1000000 --type int8 \
//		--input-query query.bin --input-gt gt.bin \
//		--output-query query.ext.bin --output-gt gt.ext.bin
//
// Repeated queries are dropped, a zipfian key sequence of -n keys is drawn
// over the unique queries, and the matching query and ground-truth rows are
// written as dumps in the input layout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/binvec"
	"github.com/hupe1980/binvec/dataset"
	"github.com/hupe1980/binvec/extend"
	"github.com/hupe1980/binvec/resource"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	number       int
	dimension    int
	elemType     string
	distribution string
	seed         uint64
	maxAttempts  int
	memoryLimit  string
	logLevel     string
	paths        extend.Paths
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	fset := flag.NewFlagSet("binvec-extend", flag.ContinueOnError)
	fset.SetOutput(stderr)

	var f flags
	fset.IntVar(&f.number, "number", 0, "number of keys to draw")
	fset.IntVar(&f.number, "n", 0, "shorthand for --number")
	fset.IntVar(&f.dimension, "dimension", 0, "expected query dimension, 0 to accept any")
	fset.IntVar(&f.dimension, "d", 0, "shorthand for --dimension")
	fset.StringVar(&f.elemType, "type", "int32", "query element type: int8, int32 or float32")
	fset.StringVar(&f.elemType, "t", "int32", "shorthand for --type")
	fset.StringVar(&f.distribution, "distribution", "zipfian", "key distribution: zipfian, uniform or latest")
	fset.Uint64Var(&f.seed, "seed", 1, "random seed")
	fset.IntVar(&f.maxAttempts, "max-attempts", extend.DefaultMaxAttempts, "draws to try before giving up")
	fset.StringVar(&f.memoryLimit, "memory-limit", "", "payload memory budget, e.g. 4GiB")
	fset.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fset.StringVar(&f.paths.Query, "input-query", "", "path to the query dump")
	fset.StringVar(&f.paths.GroundTruth, "input-gt", "", "path to the ground-truth dump")
	fset.StringVar(&f.paths.OutputQuery, "output-query", "", "path of the extended query dump")
	fset.StringVar(&f.paths.OutputGroundTruth, "output-gt", "", "path of the extended ground-truth dump")
	fset.StringVar(&f.paths.Frequencies, "freqs", "", "optional path of a key<TAB>count frequency table")

	if err := fset.Parse(args); err != nil {
		return flags{}, err
	}
	if fset.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fset.Args(), " "))
		fset.Usage()
		return flags{}, errUsage
	}
	return f, nil
}

var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		fmt.Fprintf(stderr, "binvec-extend: log level: %v\n", err)
		return 2
	}
	logger := binvec.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts, err := f.options()
	if err != nil {
		fmt.Fprintf(stderr, "binvec-extend: %v\n", err)
		return 2
	}
	metrics := &binvec.BasicMetricsCollector{}
	opts = append(opts, extend.WithLogger(logger), extend.WithMetricsCollector(metrics))

	e, err := extend.New(f.number, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "binvec-extend: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := runTyped(ctx, e, f.elemType, f.paths)
	stats := metrics.GetStats()
	logger.InfoContext(ctx, "run finished",
		"loaded", humanize.IBytes(uint64(stats.LoadBytes)),
		"written", humanize.IBytes(uint64(stats.SaveBytes)),
		"errors", stats.LoadErrors+stats.SaveErrors,
	)
	if err != nil {
		fmt.Fprintf(stderr, "binvec-extend: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Loaded queries: %d\n", rep.loaded)
	fmt.Fprintf(stdout, "Unique queries: %d\n", rep.unique)
	fmt.Fprintf(stdout, "Key space: %d after %d attempt(s)\n", rep.items, rep.attempts)
	fmt.Fprintf(stdout, "Extended query shape: %s\n", dataset.FormatShape(rep.query))
	fmt.Fprintf(stdout, "Extended ground truth shape: %s\n", dataset.FormatShape(rep.groundTruth))
	return 0
}

func (f flags) options() ([]extend.Option, error) {
	switch strings.ToLower(f.elemType) {
	case "int8", "int32", "float32", "float":
	default:
		return nil, fmt.Errorf("unknown vector type %q", f.elemType)
	}
	dist, err := extend.ParseDistribution(f.distribution)
	if err != nil {
		return nil, err
	}
	opts := []extend.Option{
		extend.WithDistribution(dist),
		extend.WithSeed(f.seed),
		extend.WithMaxAttempts(f.maxAttempts),
		extend.WithDimension(f.dimension),
	}
	if s := strings.TrimSpace(f.memoryLimit); s != "" {
		limit, err := humanize.ParseBytes(s)
		if err != nil {
			return nil, fmt.Errorf("memory limit: %w", err)
		}
		if limit > 1<<63-1 {
			limit = 1<<63 - 1
		}
		opts = append(opts, extend.WithResourceController(resource.NewController(resource.Config{
			MemoryLimitBytes: int64(limit),
		})))
	}
	return opts, nil
}

type report struct {
	loaded, unique int
	items          uint64
	attempts       int
	query          [2]int
	groundTruth    [2]int
}

func runTyped(ctx context.Context, e *extend.Extender, elemType string, paths extend.Paths) (report, error) {
	switch strings.ToLower(elemType) {
	case "int8":
		return summarize(extend.Run[int8](ctx, e, paths))
	case "int32":
		return summarize(extend.Run[int32](ctx, e, paths))
	case "float32", "float":
		return summarize(extend.Run[float32](ctx, e, paths))
	default:
		return report{}, fmt.Errorf("unknown vector type %q", elemType)
	}
}

func summarize[T dataset.Element](res *extend.Result[T], err error) (report, error) {
	if err != nil {
		return report{}, err
	}
	return report{
		loaded:      res.Loaded,
		unique:      res.Unique,
		items:       res.Plan.Items,
		attempts:    res.Plan.Attempts,
		query:       res.Query.Shape(),
		groundTruth: res.GroundTruth.Indices.Shape(),
	}, nil
}
