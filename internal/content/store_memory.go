package content

import (
	"context"
	"sync"

	"skillpass/pkg/sentinel"
)

// MemoryStore is an in-memory content-addressed store for tests and local
// runs. Addresses are the commitment hashes themselves, so Put-then-Get
// round-trips match the production contract exactly.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore constructs an empty in-memory content store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// PinJSON stores the payload under its computed hash. Re-pinning identical
// content is a no-op that yields the same address.
func (s *MemoryStore) PinJSON(_ context.Context, payload []byte) (PinResult, error) {
	hash, err := HashBytes(payload)
	if err != nil {
		return PinResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[hash.String()]; !ok {
		stored := make([]byte, len(payload))
		copy(stored, payload)
		s.blobs[hash.String()] = stored
	}
	return PinResult{Address: hash.String(), Size: int64(len(payload))}, nil
}

// Fetch returns the blob at the address or ErrNotFound.
func (s *MemoryStore) Fetch(_ context.Context, address string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if blob, ok := s.blobs[address]; ok {
		out := make([]byte, len(blob))
		copy(out, blob)
		return out, nil
	}
	return nil, sentinel.ErrNotFound
}

// Delete removes a blob. Tests use this to simulate a committed hash whose
// blob was never durably stored.
func (s *MemoryStore) Delete(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, address)
}

var _ Store = (*MemoryStore)(nil)
