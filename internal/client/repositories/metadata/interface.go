// Package metadata stores small named blobs in the local SQLite database.
// The session record of the signed-in user is kept here between runs.
package metadata

import (
	"context"
)

// Repository is a key/value store. Get returns (nil, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}
