package extend

import (
	"github.com/hupe1980/binvec"
	"github.com/hupe1980/binvec/blobstore"
	"github.com/hupe1980/binvec/resource"
)

type options struct {
	logger           *binvec.Logger
	metricsCollector binvec.MetricsCollector
	inputStore       blobstore.BlobStore
	outputStore      blobstore.BlobStore
	resources        *resource.Controller
	distribution     Distribution
	seed             uint64
	maxAttempts      int
	dimension        int
	bufferSize       int
}

// Option configures an Extender.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *binvec.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsCollector records loads and saves. Pass nil to disable.
func WithMetricsCollector(mc binvec.MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithInputStore sets the store the query and ground-truth dumps are read from.
func WithInputStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.inputStore = store
	}
}

// WithOutputStore sets the store extended dumps are written to.
func WithOutputStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.outputStore = store
	}
}

// WithResourceController budgets the loaded and extended payloads and
// paces output writes.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithDistribution selects the key distribution. Defaults to Zipfian.
func WithDistribution(d Distribution) Option {
	return func(o *options) {
		o.distribution = d
	}
}

// WithSeed seeds the key sequence. Defaults to 1.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMaxAttempts bounds how many draws may be tried before giving up.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
	}
}

// WithDimension requires the query dump to have exactly dim columns.
// Zero accepts any dimension.
func WithDimension(dim int) Option {
	return func(o *options) {
		o.dimension = dim
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
		logger:           binvec.NoopLogger(),
		metricsCollector: binvec.NoopMetricsCollector{},
		inputStore:       local,
		outputStore:      local,
		distribution:     Zipfian,
		seed:             1,
		maxAttempts:      DefaultMaxAttempts,
		bufferSize:       1 << 20,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = binvec.NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = binvec.NoopMetricsCollector{}
	}
	return o
}
