// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("runs/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	sess, err := fvecmat.Open(ctx, "spool.mat", fvecmat.WithStore(store, "run-1.mat"))
//
// Uploads go through the SDK's upload manager, so large containers are sent
// as concurrent multipart uploads with CRC32C checksums.
package s3
