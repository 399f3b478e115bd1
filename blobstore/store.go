package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
var ErrNotFound = os.ErrNotExist

// Store is a destination for finished containers.
//
// Containers are written to a local, seekable spool file first because the
// encoder backpatches size fields. A Store only ever receives complete
// files.
type Store interface {
	// Put stores size bytes read from r under name, replacing any previous blob.
	// size may be -1 if unknown.
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
