package blobstore

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme identifies the kind of output target.
type Scheme string

const (
	SchemeFile  Scheme = "file"
	SchemeS3    Scheme = "s3"
	SchemeMinio Scheme = "minio"
)

// Target is a parsed output location.
type Target struct {
	Scheme Scheme
	// Endpoint is the host[:port] of a MinIO server.
	Endpoint string
	// Bucket is the S3 or MinIO bucket.
	Bucket string
	// Key is the object key, or the local path for SchemeFile.
	Key string
}

// Remote reports whether the target is an object store.
func (t Target) Remote() bool { return t.Scheme != SchemeFile }

// String returns the target in URI form.
func (t Target) String() string {
	switch t.Scheme {
	case SchemeS3:
		return "s3://" + t.Bucket + "/" + t.Key
	case SchemeMinio:
		return "minio://" + t.Endpoint + "/" + t.Bucket + "/" + t.Key
	default:
		return t.Key
	}
}

// ParseTarget parses an output location:
//
//	out.mat                          local file
//	s3://bucket/path/out.mat         Amazon S3
//	minio://host:9000/bucket/out.mat MinIO or another S3-compatible server
func ParseTarget(s string) (Target, error) {
	if !strings.Contains(s, "://") {
		if s == "" {
			return Target{}, fmt.Errorf("blobstore: empty target")
		}
		return Target{Scheme: SchemeFile, Key: s}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Target{}, fmt.Errorf("blobstore: parse target %q: %w", s, err)
	}
	path := strings.TrimPrefix(u.Path, "/")

	switch Scheme(u.Scheme) {
	case SchemeFile:
		return Target{Scheme: SchemeFile, Key: u.Host + u.Path}, nil
	case SchemeS3:
		if u.Host == "" || path == "" {
			return Target{}, fmt.Errorf("blobstore: s3 target needs bucket and key: %q", s)
		}
		return Target{Scheme: SchemeS3, Bucket: u.Host, Key: path}, nil
	case SchemeMinio:
		bucket, key, ok := strings.Cut(path, "/")
		if u.Host == "" || !ok || bucket == "" || key == "" {
			return Target{}, fmt.Errorf("blobstore: minio target needs endpoint, bucket and key: %q", s)
		}
		return Target{Scheme: SchemeMinio, Endpoint: u.Host, Bucket: bucket, Key: key}, nil
	default:
		return Target{}, fmt.Errorf("blobstore: unsupported scheme %q", u.Scheme)
	}
}
