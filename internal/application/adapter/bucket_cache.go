// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// BucketCache is an optional read-through cache for computed bucket sets,
// keyed by a content fingerprint. It is a performance optimization, never a
// correctness requirement: a miss always triggers a full recomputation, and
// an entry only becomes visible once its value is fully written.
type BucketCache interface {
	// Get returns the cached payload for the key, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a fully computed payload under the key with the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
