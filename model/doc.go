// Package model defines the feature vector type exchanged between feature
// extraction and the container encoder.
//
// A FeatureVector is a sparse vector: Dim holds the nonzero indices in the
// hashed feature space and Val the corresponding values. Src is an optional
// provenance string, typically the file name or line the vector was
// extracted from.
//
//	fv := model.FeatureVector{
//	    Src: "a.exe",
//	    Dim: []uint32{5, 130000},
//	    Val: []float64{1.5, -2.25},
//	}
package model
