package store

import (
	"context"
	"sync"

	"skillpass/internal/ledger"
	id "skillpass/pkg/domain"
	platformsync "skillpass/pkg/platform/sync"
	"skillpass/pkg/sentinel"
)

// MemoryStore is an in-memory ledger implementation for tests and local runs.
// Issuance is serialized under a single write lock so the next-id counter is
// a total order; revocations take a per-id sharded lock so revokes against
// different IDs do not contend.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[id.CredentialID]ledger.Record
	students map[id.Address][]id.CredentialID
	nextID   id.CredentialID

	revokeMu *platformsync.ShardedMutex
}

// NewMemoryStore constructs an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[id.CredentialID]ledger.Record),
		students: make(map[id.Address][]id.CredentialID),
		nextID:   1,
		revokeMu: platformsync.NewShardedMutex(),
	}
}

// Issue allocates the next ID and creates the record under one lock, so
// partial application is never observable.
func (s *MemoryStore) Issue(_ context.Context, params ledger.IssueParams) (ledger.Issued, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credID := s.nextID
	s.nextID++

	record := ledger.Record{
		ID:           credID,
		Student:      params.Student,
		Issuer:       params.Issuer,
		ContentHash:  params.ContentHash,
		StoreAddress: params.StoreAddress,
		Expiry:       params.Expiry,
		IssuedAt:     params.Now,
		State:        ledger.StateActive,
	}
	s.records[credID] = record
	s.students[params.Student] = append(s.students[params.Student], credID)

	return ledger.Issued{
		Record: record,
		TxHash: ledger.NewTxHash("issue", credID),
	}, nil
}

// Revoke transitions the record to Revoked. The per-id lock makes concurrent
// revokes of the same ID mutually exclusive; the loser observes
// ErrAlreadyRevoked rather than silently succeeding.
func (s *MemoryStore) Revoke(_ context.Context, caller id.Address, credID id.CredentialID) (string, error) {
	// The per-id lock covers the whole check-then-set sequence; the map
	// mutex is only held for the individual reads and writes, so revokes
	// against different IDs proceed independently.
	s.revokeMu.Lock(credID.String())
	defer s.revokeMu.Unlock(credID.String())

	s.mu.RLock()
	record, ok := s.records[credID]
	s.mu.RUnlock()

	if !ok {
		return "", sentinel.ErrNotFound
	}
	if record.Issuer != caller {
		return "", sentinel.ErrNotIssuer
	}
	if record.Revoked() {
		return "", sentinel.ErrAlreadyRevoked
	}

	record.State = ledger.StateRevoked
	s.mu.Lock()
	s.records[credID] = record
	s.mu.Unlock()

	return ledger.NewTxHash("revoke", credID), nil
}

// Get returns the record for the given ID or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, credID id.CredentialID) (ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[credID]; ok {
		return record, nil
	}
	return ledger.Record{}, sentinel.ErrNotFound
}

// CredentialsOf returns the IDs issued to a student in issuance order.
func (s *MemoryStore) CredentialsOf(_ context.Context, student id.Address) ([]id.CredentialID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.students[student]
	out := make([]id.CredentialID, len(ids))
	copy(out, ids)
	return out, nil
}

var _ ledger.Store = (*MemoryStore)(nil)
