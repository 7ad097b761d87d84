// Package kvstore keeps small durable records addressed by a namespace key.
// Each record is an opaque payload written as a whole; there is no expiry.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a key that was never written.
var ErrNotFound = errors.New("kvstore: record not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
}
