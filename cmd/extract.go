package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/fvecmat"
	"github.com/hupe1980/fvecmat/blobstore"
	"github.com/hupe1980/fvecmat/blobstore/minio"
	"github.com/hupe1980/fvecmat/blobstore/s3"
	"github.com/hupe1980/fvecmat/extract"
	"github.com/hupe1980/fvecmat/featmap"
	"github.com/hupe1980/fvecmat/mat5"
	"github.com/hupe1980/fvecmat/prom"
)

type extractCommand struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	Bits        int
	NGramLen    int
	Granularity string
	Delimiters  string
	Embedding   string
	Normalize   string
	Workers     int

	Target           string
	Lines            bool
	BlockSize        int
	Unbuffered       bool
	IndexPolicy      string
	SpoolDir         string
	UploadTimeout    time.Duration
	ProgressInterval time.Duration

	MapFile        string
	MapCompression string

	MinioAccessKey string
	MinioSecretKey string
	MinioRegion    string
	MinioInsecure  bool
	S3Region       string
	S3Endpoint     string

	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

func newExtractCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &extractCommand{stdin: stdin, stdout: stdout, stderr: stderr}
	def := extract.DefaultConfig()

	ec := &cobra.Command{
		Use:   "extract [flags] <input>...",
		Short: "Extract feature vectors and write them to a MAT-file.",
		Long: `Extract reads every input file (directories are walked recursively) and
writes one feature vector per file. With --lines every line of the inputs,
or of stdin when no input or "-" is given, becomes a vector.

The output target is a local path, s3://bucket/key or
minio://host:port/bucket/key. Remote targets are written to a spool file
first and uploaded when the container is complete.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), args)
		},
	}

	flags := ec.Flags()
	flags.IntVar(&c.Bits, "features.hash-bits", def.Bits, "Width of the hashed feature space, 1 to 31.")
	flags.IntVar(&c.NGramLen, "features.ngram-len", def.NGramLen, "Number of bytes or tokens per n-gram.")
	flags.StringVar(&c.Granularity, "features.granularity", "bytes", "N-gram unit: bytes or tokens.")
	flags.StringVar(&c.Delimiters, "features.delimiters", def.Delimiters, "Bytes separating tokens.")
	flags.StringVar(&c.Embedding, "features.embedding", "cnt", "Dimension value: cnt or bin.")
	flags.StringVar(&c.Normalize, "features.normalize", "none", "Vector norm: none, l1 or l2.")
	flags.IntVar(&c.Workers, "features.workers", 0, "Files processed concurrently, 0 for one per CPU.")

	flags.StringVarP(&c.Target, "output.target", "o", "", "Output path, s3://bucket/key or minio://host/bucket/key.")
	flags.BoolVar(&c.Lines, "output.lines", false, "One vector per input line instead of per file.")
	flags.IntVar(&c.BlockSize, "output.block-size", 256, "Vectors extracted and written per block.")
	flags.BoolVar(&c.Unbuffered, "output.unbuffered", false, "Encode straight onto the file instead of staging each element pair.")
	flags.StringVar(&c.IndexPolicy, "output.index-policy", mat5.MaskIndices.String(), "Handling of indices >= 2^31: mask or reject.")
	flags.StringVar(&c.SpoolDir, "output.spool-dir", os.TempDir(), "Directory for the spool file of remote targets.")
	flags.DurationVar(&c.UploadTimeout, "output.upload-timeout", 0, "Upload timeout for remote targets, 0 for none.")
	flags.DurationVar(&c.ProgressInterval, "output.progress-interval", 10*time.Second, "Interval of progress log lines, 0 to disable.")

	flags.StringVar(&c.MapFile, "map.file", "", "Save the feature map (hash to n-gram) to this file.")
	flags.StringVar(&c.MapCompression, "map.compression", "zstd", "Feature map compression: none, lz4 or zstd.")

	flags.StringVar(&c.MinioAccessKey, "minio.access-key", "", "MinIO access key.")
	flags.StringVar(&c.MinioSecretKey, "minio.secret-key", "", "MinIO secret key.")
	flags.StringVar(&c.MinioRegion, "minio.region", "", "MinIO region.")
	flags.BoolVar(&c.MinioInsecure, "minio.insecure", false, "Connect to MinIO without TLS.")
	flags.StringVar(&c.S3Region, "s3.region", "", "AWS region, defaults to the SDK configuration.")
	flags.StringVar(&c.S3Endpoint, "s3.endpoint", "", "Custom S3 endpoint.")

	flags.StringVar(&c.LogLevel, "log.level", "info", "Log level: debug, info, warn or error.")
	flags.StringVar(&c.LogFormat, "log.format", "text", "Log format: text or json.")
	flags.StringVar(&c.MetricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit.")

	return ec
}

func (c *extractCommand) extractConfig(fm *featmap.Map) (extract.Config, error) {
	cfg := extract.DefaultConfig()
	cfg.Bits = c.Bits
	cfg.NGramLen = c.NGramLen
	cfg.Delimiters = c.Delimiters
	cfg.Workers = c.Workers
	cfg.Map = fm

	var err error
	if cfg.Granularity, err = extract.ParseGranularity(c.Granularity); err != nil {
		return cfg, err
	}
	if cfg.Embedding, err = extract.ParseEmbedding(c.Embedding); err != nil {
		return cfg, err
	}
	if cfg.Normalize, err = extract.ParseNormalization(c.Normalize); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *extractCommand) logger() (*fvecmat.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch c.LogFormat {
	case "text":
		return fvecmat.NewLogger(slog.NewTextHandler(c.stderr, opts)), nil
	case "json":
		return fvecmat.NewLogger(slog.NewJSONHandler(c.stderr, opts)), nil
	}
	return nil, fmt.Errorf("log.format: unknown format %q", c.LogFormat)
}

func (c *extractCommand) openStore(ctx context.Context, t blobstore.Target) (blobstore.Store, error) {
	switch t.Scheme {
	case blobstore.SchemeS3:
		var opts []s3.Option
		if c.S3Region != "" {
			opts = append(opts, s3.WithRegion(c.S3Region))
		}
		if c.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.S3Endpoint))
		}
		return s3.New(ctx, t.Bucket, opts...)
	case blobstore.SchemeMinio:
		return minio.Dial(minio.Config{
			Endpoint:  t.Endpoint,
			AccessKey: c.MinioAccessKey,
			SecretKey: c.MinioSecretKey,
			Region:    c.MinioRegion,
			Secure:    !c.MinioInsecure,
		}, t.Bucket, "")
	}
	return nil, fmt.Errorf("no store for scheme %q", t.Scheme)
}

func (c *extractCommand) run(ctx context.Context, args []string) (err error) {
	if c.Target == "" {
		return errors.New("no output target, use --output.target")
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("output.block-size must be positive, got %d", c.BlockSize)
	}

	logger, err := c.logger()
	if err != nil {
		return err
	}

	policy, err := mat5.ParseIndexPolicy(c.IndexPolicy)
	if err != nil {
		return err
	}

	var fm *featmap.Map
	var mapCompression featmap.Compression
	if c.MapFile != "" {
		if mapCompression, err = featmap.ParseCompression(c.MapCompression); err != nil {
			return err
		}
		fm = featmap.New()
	}

	cfg, err := c.extractConfig(fm)
	if err != nil {
		return err
	}
	ex, err := extract.New(cfg)
	if err != nil {
		return err
	}

	target, err := blobstore.ParseTarget(c.Target)
	if err != nil {
		return err
	}

	opts := []fvecmat.Option{
		fvecmat.WithBits(c.Bits),
		fvecmat.WithLogger(logger),
		fvecmat.WithIndexPolicy(policy),
		fvecmat.WithBuffered(!c.Unbuffered),
		fvecmat.WithProgressInterval(c.ProgressInterval),
	}

	path := target.Key
	if target.Remote() {
		store, err := c.openStore(ctx, target)
		if err != nil {
			return err
		}
		path = filepath.Join(c.SpoolDir, fmt.Sprintf("fvecmat-%d-%s", os.Getpid(), filepath.Base(target.Key)))
		defer os.Remove(path)
		opts = append(opts, fvecmat.WithStore(store, target.Key), fvecmat.WithUploadTimeout(c.UploadTimeout))
	}

	if c.MetricsTextfile != "" {
		reg := prometheus.NewRegistry()
		mc, err := prom.NewCollector(reg, "fvecmat")
		if err != nil {
			return err
		}
		opts = append(opts, fvecmat.WithMetricsCollector(mc))
		defer func() {
			if werr := prom.WriteTextfile(c.MetricsTextfile, reg); werr != nil {
				logger.Error("writing metrics textfile", "path", c.MetricsTextfile, "error", werr)
			}
		}()
	}

	s, err := fvecmat.Open(ctx, path, opts...)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		// an unfinished container is not a valid MAT-file
		if err != nil && !closed {
			_ = s.Close()
			_ = os.Remove(path)
		}
	}()

	if c.Lines {
		err = c.writeLines(ctx, s, ex, args)
	} else {
		err = c.writeFiles(ctx, s, ex, args)
	}
	if err != nil {
		return err
	}

	closed = true
	if err = s.CloseContext(ctx); err != nil {
		if !target.Remote() {
			_ = os.Remove(path)
		}
		return err
	}

	if fm != nil {
		if err = saveMap(c.MapFile, fm, mapCompression); err != nil {
			return err
		}
		if n := fm.Collisions(); n > 0 {
			logger.Warn("feature hash collisions", "count", n)
		}
	}

	st := s.Stats()
	fmt.Fprintf(c.stdout, "wrote %d vectors (%d bytes, %d distinct dimensions) to %s\n",
		st.Vectors, st.PayloadBytes, st.DistinctDims, target)
	return nil
}

func (c *extractCommand) writeFiles(ctx context.Context, s *fvecmat.Session, ex *extract.Extractor, args []string) error {
	paths, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no input files")
	}

	for chunk := range slices.Chunk(paths, c.BlockSize) {
		vecs, err := ex.Files(ctx, chunk)
		if err != nil {
			return err
		}
		if err := s.Write(ctx, vecs); err != nil {
			return err
		}
	}
	return nil
}

func (c *extractCommand) writeLines(ctx context.Context, s *fvecmat.Session, ex *extract.Extractor, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}

	for _, arg := range args {
		r := c.stdin
		if arg != "-" {
			f, err := os.Open(arg)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		vecs, err := ex.Lines(ctx, r)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		for chunk := range slices.Chunk(vecs, c.BlockSize) {
			if err := s.Write(ctx, chunk); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandInputs replaces directories by the regular files below them, in
// lexical order.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func saveMap(path string, fm *featmap.Map, c featmap.Compression) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fm.Save(f, c); err != nil {
		f.Close()
		return fmt.Errorf("save feature map: %w", err)
	}
	return f.Close()
}
