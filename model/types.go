package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrLengthMismatch is returned when Dim and Val differ in length.
var ErrLengthMismatch = errors.New("model: dim and val length mismatch")

// FeatureVector is a sparse feature vector with an optional source.
type FeatureVector struct {
	// Src identifies where the vector came from. Empty means absent.
	Src string
	// Dim holds the indices of the nonzero dimensions.
	Dim []uint32
	// Val holds the values, Val[i] belongs to Dim[i].
	Val []float64
}

// Len returns the number of nonzero entries.
func (fv *FeatureVector) Len() int { return len(fv.Dim) }

// Validate checks the Dim/Val invariant.
func (fv *FeatureVector) Validate() error {
	if len(fv.Dim) != len(fv.Val) {
		return fmt.Errorf("%w: %d indices, %d values", ErrLengthMismatch, len(fv.Dim), len(fv.Val))
	}
	return nil
}

// String returns a compact representation.
func (fv FeatureVector) String() string {
	return fmt.Sprintf("FeatureVector(src=%q, nnz=%d)", fv.Src, len(fv.Dim))
}

// Sort orders the entries by ascending dimension.
func (fv *FeatureVector) Sort() {
	sort.Sort(byDim{fv})
}

// Sorted reports whether Dim is strictly ascending.
func (fv *FeatureVector) Sorted() bool {
	for i := 1; i < len(fv.Dim); i++ {
		if fv.Dim[i-1] >= fv.Dim[i] {
			return false
		}
	}
	return true
}

type byDim struct{ fv *FeatureVector }

func (s byDim) Len() int           { return len(s.fv.Dim) }
func (s byDim) Less(i, j int) bool { return s.fv.Dim[i] < s.fv.Dim[j] }
func (s byDim) Swap(i, j int) {
	s.fv.Dim[i], s.fv.Dim[j] = s.fv.Dim[j], s.fv.Dim[i]
	s.fv.Val[i], s.fv.Val[j] = s.fv.Val[j], s.fv.Val[i]
}
