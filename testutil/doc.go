// Package testutil provides testing utilities for fvecmat.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible random feature vectors.
//
//	rng := testutil.NewRNG(seed)
//	fv := rng.FeatureVector(20, 64)        // up to 64 nonzeros below 2^20
//	vecs := rng.FeatureVectors(100, 20, 64)
package testutil
