package storage

import (
	"context"
	"io"
)

// BlobStore is an opaque key to bytes store for avatar images.
type BlobStore interface {
	// Put stores the content under a fresh path inside namespace and returns that path.
	Put(ctx context.Context, namespace string, r io.Reader, ext, contentType string) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete is a no-op when path does not exist.
	Delete(ctx context.Context, path string) error
	// URL returns the public address of path.
	URL(path string) string
}
