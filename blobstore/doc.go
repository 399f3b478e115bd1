// Package blobstore provides destinations for finished containers.
//
// A container session always writes to a local, seekable file because the
// format requires backpatching. When a Store is configured the finished
// file is uploaded on Close.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system (atomic rename)
//   - MemoryStore: in-memory, for tests
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with multipart uploads
//
// Targets are addressed with URIs understood by ParseTarget:
//
//	out.mat
//	s3://bucket/vectors/out.mat
//	minio://localhost:9000/bucket/out.mat
package blobstore
