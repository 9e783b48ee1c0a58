// Package cache provides a metadata blob cache keyed by content address.
// Content-addressed data never changes under its address, so entries are
// immutable; TTLs exist only to bound memory, not for correctness.
package cache

import "context"

// Cache stores fetched metadata blobs by address.
// Implementations return sentinel.ErrNotFound on miss.
type Cache interface {
	Get(ctx context.Context, address string) ([]byte, error)
	Set(ctx context.Context, address string, blob []byte) error
}
