package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureVector_Validate(t *testing.T) {
	ok := FeatureVector{Dim: []uint32{1, 2}, Val: []float64{1, 2}}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, 2, ok.Len())

	empty := FeatureVector{}
	assert.NoError(t, empty.Validate())

	bad := FeatureVector{Dim: []uint32{1}, Val: nil}
	assert.ErrorIs(t, bad.Validate(), ErrLengthMismatch)
}

func TestFeatureVector_Sort(t *testing.T) {
	fv := FeatureVector{
		Dim: []uint32{9, 1, 5},
		Val: []float64{0.9, 0.1, 0.5},
	}
	assert.False(t, fv.Sorted())

	fv.Sort()
	assert.True(t, fv.Sorted())
	assert.Equal(t, []uint32{1, 5, 9}, fv.Dim)
	assert.Equal(t, []float64{0.1, 0.5, 0.9}, fv.Val)
}

func TestFeatureVector_String(t *testing.T) {
	fv := FeatureVector{Src: "a.exe", Dim: []uint32{1}, Val: []float64{1}}
	assert.Equal(t, `FeatureVector(src="a.exe", nnz=1)`, fv.String())
}
