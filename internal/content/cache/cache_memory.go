package cache

import (
	"context"
	"sync"

	"skillpass/pkg/sentinel"
)

// MemoryCache is an in-memory blob cache for tests or single-instance runs.
type MemoryCache struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory constructs an empty in-memory cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{blobs: make(map[string][]byte)}
}

// Get returns the cached blob for the address or ErrNotFound.
func (c *MemoryCache) Get(_ context.Context, address string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if blob, ok := c.blobs[address]; ok {
		out := make([]byte, len(blob))
		copy(out, blob)
		return out, nil
	}
	return nil, sentinel.ErrNotFound
}

// Set stores a blob under its address.
func (c *MemoryCache) Set(_ context.Context, address string, blob []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	c.blobs[address] = stored
	return nil
}

var _ Cache = (*MemoryCache)(nil)
