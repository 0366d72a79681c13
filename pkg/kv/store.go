package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys that were never set.
var ErrNotFound = errors.New("key not found")

// Store is a small durable key-value capability. The unread-marker
// tracker depends only on this interface so any backend (or an
// in-memory fake in tests) can serve it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}
