package extract

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/spaolacci/murmur3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/fvecmat/internal/mmap"
	"github.com/hupe1980/fvecmat/model"
)

// Extractor turns strings into hashed feature vectors. It is safe for
// concurrent use.
type Extractor struct {
	cfg   Config
	mask  uint64
	delim [256]bool
}

// New validates cfg and returns an Extractor.
func New(cfg Config) (*Extractor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Extractor{
		cfg:  cfg,
		mask: uint64(1)<<uint(cfg.Bits) - 1,
	}
	for i := 0; i < len(cfg.Delimiters); i++ {
		e.delim[cfg.Delimiters[i]] = true
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Extractor) Config() Config { return e.cfg }

// Vector embeds data. The indices of the result are sorted and unique.
func (e *Extractor) Vector(src string, data []byte) model.FeatureVector {
	counts := make(map[uint32]float64)

	if e.cfg.Granularity == Tokens {
		e.tokenGrams(data, counts)
	} else {
		e.byteGrams(data, counts)
	}

	fv := model.FeatureVector{
		Src: src,
		Dim: make([]uint32, 0, len(counts)),
		Val: make([]float64, 0, len(counts)),
	}
	for d := range counts {
		fv.Dim = append(fv.Dim, d)
	}
	slices.Sort(fv.Dim)

	for _, d := range fv.Dim {
		v := counts[d]
		if e.cfg.Embedding == EmbedBinary {
			v = 1
		}
		fv.Val = append(fv.Val, v)
	}

	normalize(fv.Val, e.cfg.Normalize)
	return fv
}

func (e *Extractor) add(gram []byte, counts map[uint32]float64) {
	d := uint32(murmur3.Sum64(gram) & e.mask)
	counts[d]++
	if e.cfg.Map != nil {
		e.cfg.Map.Put(uint64(d), gram)
	}
}

func (e *Extractor) byteGrams(data []byte, counts map[uint32]float64) {
	n := e.cfg.NGramLen
	for i := 0; i+n <= len(data); i++ {
		e.add(data[i:i+n], counts)
	}
}

func (e *Extractor) tokenGrams(data []byte, counts map[uint32]float64) {
	tokens := splitTokens(data, &e.delim)
	n := e.cfg.NGramLen

	var gram []byte
	for i := 0; i+n <= len(tokens); i++ {
		gram = gram[:0]
		for j, tok := range tokens[i : i+n] {
			if j > 0 {
				gram = append(gram, ' ')
			}
			gram = append(gram, tok...)
		}
		e.add(gram, counts)
	}
}

func splitTokens(data []byte, delim *[256]bool) [][]byte {
	var tokens [][]byte
	start := -1
	for i, b := range data {
		if delim[b] {
			if start >= 0 {
				tokens = append(tokens, data[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, data[start:])
	}
	return tokens
}

func normalize(val []float64, norm Normalization) {
	var s float64
	switch norm {
	case NormL1:
		for _, v := range val {
			s += math.Abs(v)
		}
	case NormL2:
		for _, v := range val {
			s += v * v
		}
		s = math.Sqrt(s)
	default:
		return
	}
	if s == 0 {
		return
	}
	for i := range val {
		val[i] /= s
	}
}

// File embeds the contents of the file at path with src set to path.
func (e *Extractor) File(path string) (model.FeatureVector, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return model.FeatureVector{}, err
	}
	defer m.Close()

	if err := m.Advise(mmap.AccessSequential); err != nil {
		return model.FeatureVector{}, err
	}
	return e.Vector(path, m.Bytes()), nil
}

// Files embeds the given files concurrently. The i-th vector belongs to
// paths[i]. The first error cancels the remaining work.
func (e *Extractor) Files(ctx context.Context, paths []string) ([]model.FeatureVector, error) {
	out := make([]model.FeatureVector, len(paths))
	sem := semaphore.NewWeighted(e.cfg.MaxInflightBytes)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for i, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			_ = g.Wait()
			return nil, err
		}
		weight := min(max(fi.Size(), 1), e.cfg.MaxInflightBytes)
		if err := sem.Acquire(gctx, weight); err != nil {
			// a failed worker cancels gctx; report its error
			if werr := g.Wait(); werr != nil {
				return nil, werr
			}
			return nil, err
		}

		g.Go(func() error {
			defer sem.Release(weight)
			if err := gctx.Err(); err != nil {
				return err
			}
			fv, err := e.File(path)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}
			out[i] = fv
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Lines embeds every line of r. The source of a vector is "line:N" with N
// counting from 1.
func (e *Extractor) Lines(ctx context.Context, r io.Reader) ([]model.FeatureVector, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)

	var out []model.FeatureVector
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, e.Vector(fmt.Sprintf("line:%d", n), sc.Bytes()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
