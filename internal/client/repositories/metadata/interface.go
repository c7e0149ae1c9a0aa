// Package metadata is a small key/value table in the local SQLite database.
// The session store keeps the signed-in user name and bearer token in it.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get of a missing key returns
// (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMany(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
