package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent from the cache.
var ErrMiss = errors.New("cache miss")

// Store is the OCR result cache contract. Values are opaque serialized
// results keyed by an image digest.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Noop is the disabled cache: every lookup misses, every store succeeds.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrMiss
}

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
