package kv

import (
	"context"
	"time"
)

// Store is the durable key-value port: a paginated prefix-scan map with
// optional per-key TTL. Swap in any adapter that honors these semantics.
type Store interface {
	// Get returns ok=false when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Put upserts a key. ttl <= 0 means no expiry.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// List returns up to limit keys with the given prefix, starting
	// after cursor (empty cursor starts from the beginning). complete is
	// true when there is nothing left to scan.
	List(ctx context.Context, prefix, cursor string, limit int) (keys []string, next string, complete bool, err error)
}
