// Package blobs stores the image bytes of the backend: originals and their
// thumbnails, addressed by key.
package blobs

import (
	"context"
)

// Blob is a stored object.
type Blob struct {
	Data        []byte
	ContentType string
}

// Store is implemented by MemoryStore and S3Store. Missing keys yield
// shared.ErrorNotFound.
type Store interface {
	Put(ctx context.Context, key string, b Blob) error
	Get(ctx context.Context, key string) (Blob, error)
	Delete(ctx context.Context, key string) error
}
