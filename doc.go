// Package fvecmat writes sparse feature vectors to MATLAB v5 MAT-files.
//
// A container holds a single 2 x N cell array named "data". Column i stores
// the source string of the i-th vector in row 1 and the vector itself, as a
// 2^bits x 1 sparse double array, in row 2.
//
// # Quick Start
//
//	ctx := context.Background()
//	s, _ := fvecmat.Open(ctx, "features.mat", fvecmat.WithBits(20))
//	_ = s.Write(ctx, []model.FeatureVector{
//	    {Src: "a.exe", Dim: []uint32{5, 130000}, Val: []float64{1.5, -2.25}},
//	})
//	_ = s.Close()
//
// In MATLAB the file loads as
//
//	load features.mat
//	data{1, 1}  % 'a.exe'
//	data{2, 1}  % 1048576x1 sparse double
//
// # Streaming
//
// Vectors are appended as they arrive; Write may be called any number of
// times. The outer size field and the column count are only known once all
// vectors are written, so Open writes zeros there and Close patches them.
// Until Close returns the file is not a valid MAT-file.
//
// # Errors
//
// A failed write leaves a truncated element behind. The session is then
// broken: further writes fail with ErrSessionBroken and Close releases the
// file without patching it. The caller should remove the file.
//
// # Remote Output
//
// With WithStore the finished file is uploaded on Close:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("features/"))
//	s, _ := fvecmat.Open(ctx, "/tmp/spool.mat", fvecmat.WithStore(store, "run-42.mat"))
package fvecmat
