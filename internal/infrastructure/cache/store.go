package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented TTL cache shared by the read-through repositories
type Store interface {
	// Get returns ok=false on a miss
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
