// Package cache stores serialized reports keyed by the content they were computed from.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key derives a cache key from a report kind, its options and the document it covers.
func Key(kind string, parts ...[]byte) string {
	h := sha256.New()

	for _, part := range parts {
		h.Write(part)
		h.Write([]byte{0})
	}

	return "flowcheck:" + kind + ":" + hex.EncodeToString(h.Sum(nil))
}
