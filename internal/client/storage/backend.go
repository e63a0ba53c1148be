package storage

import (
	"context"
	"errors"
)

// ErrUnknownBackend is returned by Open for an unsupported engine name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrClosed is returned by operations on a closed MemoryBackend.
var ErrClosed = errors.New("storage closed")

// Backend is a synchronous key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
