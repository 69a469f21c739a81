package storage

import (
	"context"
	"errors"
)

// Storage is a string key-value store holding serialized cart snapshots.
// Consumers define this interface, not the backend implementations
type Storage interface {
	// Read returns ErrNotFound when nothing is stored under key.
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
}

var ErrNotFound = errors.New("snapshot not found")
