package binvec

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/binvec/blobstore"
	"github.com/hupe1980/binvec/compression"
	"github.com/hupe1980/binvec/resource"
)

// NameFunc maps an input path and an output suffix to the name of the
// output blob.
type NameFunc func(input, suffix string) string

// SiblingName places the output next to its input: "<input><suffix>".
func SiblingName(input, suffix string) string {
	return input + suffix
}

// BaseName keeps only the input's file name: "<basename(input)><suffix>".
// Use it for remote stores whose prefix replaces the input directory.
func BaseName(input, suffix string) string {
	return filepath.Base(input) + suffix
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	stdout           io.Writer
	inputStore       blobstore.BlobStore
	outputStore      blobstore.BlobStore
	outputName       NameFunc
	format           Format
	compression      compression.Type
	saveDistances    bool
	resources        *resource.Controller
	bufferSize       int
}

// Option configures a Converter.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := binvec.NewJSONLogger(slog.LevelInfo)
//	c, _ := binvec.New(binvec.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &binvec.BasicMetricsCollector{}
//	c, _ := binvec.New(binvec.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithStdout sets the writer the console report is printed to.
// Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithInputStore sets the store input dumps are read from.
// Defaults to the local filesystem with paths used as given.
func WithInputStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.inputStore = store
	}
}

// WithOutputStore sets the store arrays are written to and how output names
// are derived. A nil name func keeps SiblingName.
func WithOutputStore(store blobstore.BlobStore, name NameFunc) Option {
	return func(o *options) {
		o.outputStore = store
		if name != nil {
			o.outputName = name
		}
	}
}

// WithFormat selects the output container.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithCompression frames .npy outputs with lz4 or zstd.
// It cannot be combined with the npz formats.
func WithCompression(t compression.Type) Option {
	return func(o *options) {
		o.compression = t
	}
}

// WithSaveDistances also persists ground-truth distances, to
// "<path>.dist.npy" or as the "distances" entry of the npz archive.
func WithSaveDistances(save bool) Option {
	return func(o *options) {
		o.saveDistances = save
	}
}

// WithResourceController applies a memory budget to payload buffers and a
// throughput limit to output writes.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithBufferSize sets the output write buffer size in bytes.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

func applyOptions(optFns []Option) options {
	local := blobstore.NewLocalStore("")
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		stdout:           os.Stdout,
		inputStore:       local,
		outputStore:      local,
		outputName:       SiblingName,
		format:           FormatNPY,
		compression:      compression.None,
		bufferSize:       1 << 20,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.stdout == nil {
		o.stdout = io.Discard
	}
	return o
}
