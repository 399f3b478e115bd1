package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureVector(t *testing.T) {
	rng := NewRNG(4711)

	for i := 0; i < 100; i++ {
		fv := rng.FeatureVector(8, 40)
		require.NoError(t, fv.Validate())
		assert.LessOrEqual(t, fv.Len(), 40)
		assert.Less(t, len(fv.Src), 32)
		for j, d := range fv.Dim {
			assert.Less(t, d, uint32(256))
			if j > 0 {
				assert.Less(t, fv.Dim[j-1], d)
			}
		}
	}
}

func TestFeatureVector_SmallSpace(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 20; i++ {
		fv := rng.FeatureVector(1, 10)
		assert.LessOrEqual(t, fv.Len(), 2)
	}
}

func TestRNG_Reset(t *testing.T) {
	rng := NewRNG(42)
	a := rng.FeatureVectors(5, 16, 10)

	rng.Reset()
	b := rng.FeatureVectors(5, 16, 10)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(42), rng.Seed())
}

func TestText(t *testing.T) {
	txt := NewRNG(3).Text(64)
	assert.Len(t, txt, 64)
	for _, c := range txt {
		assert.True(t, c >= 'a' && c <= 'z')
	}
	assert.Equal(t, "sample-7", Source(7))
}
