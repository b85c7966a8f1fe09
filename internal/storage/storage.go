// Package storage is the persistent key-value layer backing the state stores.
// Each store owns a disjoint key and is the sole writer to it.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("storage: record not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
