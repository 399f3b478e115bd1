package fvecmat

import (
	"log/slog"
	"time"

	"github.com/hupe1980/fvecmat/blobstore"
	"github.com/hupe1980/fvecmat/internal/fs"
	"github.com/hupe1980/fvecmat/mat5"
)

// DefaultBits is the default index width. Vectors address 2^24 dimensions.
const DefaultBits = 24

type options struct {
	bits             int
	logger           *Logger
	metricsCollector MetricsCollector
	fs               fs.FileSystem
	indexPolicy      mat5.IndexPolicy
	buffered         bool
	description      string
	store            blobstore.Store
	storeName        string
	progressInterval time.Duration
	uploadTimeout    time.Duration
}

// Option configures a Session.
type Option func(*options)

// WithBits sets the index width. The sparse vectors of the container declare
// 2^bits rows. Valid values are 1 to 31.
func WithBits(bits int) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fvecmat.BasicMetricsCollector{}
//	s, _ := fvecmat.Open(ctx, "out.mat", fvecmat.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Vectors: %d, Avg write: %dns\n", stats.VectorsWritten, stats.WriteAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := fvecmat.NewJSONLogger(slog.LevelInfo)
//	s, _ := fvecmat.Open(ctx, "out.mat", fvecmat.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

// WithFileSystem sets the file system the container file is created on.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithIndexPolicy selects how indices with bit 31 set are handled.
// The default mat5.MaskIndices clears the bit; mat5.RejectIndices fails the
// block with ErrIndexOverflow before anything of it is written.
func WithIndexPolicy(p mat5.IndexPolicy) Option {
	return func(o *options) {
		o.indexPolicy = p
	}
}

// WithBuffered selects the element encoding strategy. When enabled (the
// default) each string/vector pair is assembled in memory and reaches the
// file in a single write. When disabled elements are encoded directly onto
// the file and their size fields are backpatched by seeking.
func WithBuffered(enabled bool) Option {
	return func(o *options) {
		o.buffered = enabled
	}
}

// WithDescription sets the descriptive text of the 128-byte preamble.
// It must not exceed 124 bytes.
func WithDescription(text string) Option {
	return func(o *options) {
		o.description = text
	}
}

// WithStore uploads the finished container to store under name on Close.
// The local path passed to Open is used as spool file.
func WithStore(store blobstore.Store, name string) Option {
	return func(o *options) {
		o.store = store
		o.storeName = name
	}
}

// WithUploadTimeout bounds the upload performed by Close. Zero means no limit.
func WithUploadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.uploadTimeout = d
	}
}

// WithProgressInterval logs running totals at most once per interval.
// Zero disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		bits:             DefaultBits,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		fs:               fs.Default,
		indexPolicy:      mat5.MaskIndices,
		buffered:         true,
		description:      mat5.DefaultDescription,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	if o.bits < 1 || o.bits > mat5.MaxBits {
		return &ErrConfiguration{Option: "bits", Value: o.bits, cause: ErrInvalidBits}
	}
	if o.store != nil && o.storeName == "" {
		return &ErrConfiguration{Option: "store name", Value: o.storeName, cause: errEmptyName}
	}
	if o.progressInterval < 0 {
		return &ErrConfiguration{Option: "progress interval", Value: o.progressInterval, cause: errNegative}
	}
	return nil
}
