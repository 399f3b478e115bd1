package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/fvecmat/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Text returns n random lower case letters.
func (r *RNG) Text(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]byte, n)
	for i := range out {
		out[i] = 'a' + byte(r.rand.Intn(26))
	}
	return out
}

// FeatureVector returns a vector with 0 to maxNNZ sorted, unique indices
// below 2^bits and a source of 0 to 31 printable bytes.
func (r *RNG) FeatureVector(bits, maxNNZ int) model.FeatureVector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.featureVector(bits, maxNNZ)
}

// FeatureVectors returns num vectors as generated by FeatureVector.
func (r *RNG) FeatureVectors(num, bits, maxNNZ int) []model.FeatureVector {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.FeatureVector, num)
	for i := range out {
		out[i] = r.featureVector(bits, maxNNZ)
	}
	return out
}

func (r *RNG) featureVector(bits, maxNNZ int) model.FeatureVector {
	space := uint64(1) << uint(bits)
	nnz := r.rand.Intn(maxNNZ + 1)
	if uint64(nnz) > space {
		nnz = int(space)
	}

	seen := make(map[uint32]struct{}, nnz)
	dim := make([]uint32, 0, nnz)
	for len(dim) < nnz {
		d := uint32(r.rand.Uint64() % space)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dim = append(dim, d)
	}
	slices.Sort(dim)

	val := make([]float64, nnz)
	for i := range val {
		val[i] = r.rand.NormFloat64()
	}

	src := make([]byte, r.rand.Intn(32))
	for i := range src {
		src[i] = byte(' ' + r.rand.Intn(95))
	}

	return model.FeatureVector{Src: string(src), Dim: dim, Val: val}
}

// Source returns a source string of the form "sample-N".
func Source(n int) string {
	return fmt.Sprintf("sample-%d", n)
}
