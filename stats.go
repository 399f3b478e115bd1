package fvecmat

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/fvecmat/mat5"
	"github.com/hupe1980/fvecmat/model"
)

// Stats is a snapshot of the running totals of a session.
type Stats struct {
	// Vectors is the number of feature vectors written. It is the value
	// stored in the column count of the outer cell array on Close.
	Vectors uint32
	// Elements is the number of matrix elements below the outer cell array,
	// two per vector.
	Elements uint64
	// PayloadBytes is the size of the outer element body. It is the value
	// stored in the outer size field on Close.
	PayloadBytes uint64
	// NonZeros is the total number of stored vector entries.
	NonZeros uint64
	// DistinctDims is the number of different indices seen, after masking.
	DistinctDims uint64
	// MaxIndex is the largest index written, after masking.
	MaxIndex uint32
}

type tally struct {
	nonzeros uint64
	maxIndex uint32
	dims     *roaring.Bitmap
}

func newTally() tally {
	return tally{dims: roaring.New()}
}

func (t *tally) observe(v *model.FeatureVector) {
	t.nonzeros += uint64(len(v.Dim))
	for _, d := range v.Dim {
		d &= mat5.IndexMask
		t.dims.Add(d)
		if d > t.maxIndex {
			t.maxIndex = d
		}
	}
}
