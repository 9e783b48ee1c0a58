// Package content binds off-ledger credential metadata to the on-ledger
// commitment hash. Hashing is a pure function over a canonical serialization;
// storage is a stateless bridge to an external content-addressed store.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	id "skillpass/pkg/domain"
)

// Metadata is the off-ledger credential document. Field order is part of the
// commitment: the canonical serialization marshals fields in declaration
// order, so reordering or renaming fields changes every hash. Do not touch
// this struct without a migration plan for existing commitments.
type Metadata struct {
	StudentAddress id.Address     `json:"studentAddress"`
	CredentialData map[string]any `json:"credentialData"`
	IssuedAt       string         `json:"issuedAt"`
	Issuer         id.Address     `json:"issuer"`
}

// NewMetadata builds the document for an issuance. IssuedAt is rendered as
// RFC 3339 UTC up front so the canonical form never depends on locale or
// monotonic clock internals.
func NewMetadata(student id.Address, data map[string]any, issuedAt time.Time, issuer id.Address) Metadata {
	return Metadata{
		StudentAddress: student,
		CredentialData: data,
		IssuedAt:       issuedAt.UTC().Format(time.RFC3339),
		Issuer:         issuer,
	}
}

// CanonicalBytes returns the canonical serialization of the metadata.
// encoding/json marshals struct fields in declaration order and sorts map
// keys, which together make the output deterministic.
func CanonicalBytes(m Metadata) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("canonicalize metadata: %w", err)
	}
	return b, nil
}

// ComputeHash derives the commitment for the metadata: a CIDv1 over the raw
// multicodec with a sha2-256 multihash of the canonical bytes. Hashing the
// same document twice always yields the same digest.
func ComputeHash(m Metadata) (id.ContentHash, error) {
	b, err := CanonicalBytes(m)
	if err != nil {
		return "", err
	}
	return HashBytes(b)
}

// HashBytes computes the CIDv1 raw sha2-256 commitment over raw bytes.
func HashBytes(b []byte) (id.ContentHash, error) {
	sum, err := multihash.Sum(b, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length this should be unreachable.
		return "", fmt.Errorf("hash metadata: %w", err)
	}
	return id.ContentHash(cid.NewCidV1(cid.Raw, sum).String()), nil
}

// VerifyIntegrity recomputes the commitment for the metadata and compares it
// to the expected hash. Every consumer of fetched metadata must call this
// before trusting the content; a store that returns bytes not hashing to the
// requested digest has substituted the document.
func VerifyIntegrity(m Metadata, expected id.ContentHash) bool {
	got, err := ComputeHash(m)
	if err != nil {
		return false
	}
	return got == expected
}

// PinResult reports where the store placed a pinned document.
type PinResult struct {
	Address string
	Size    int64
}

// Store is the external content-addressed store. Writing the same logical
// content twice yields the same address; retrieval by address returns
// byte-identical data or fails.
//
// Implementations return sentinel.ErrNotFound for unknown addresses and
// sentinel.ErrUnavailable (wrapped) for transport or quota failures.
type Store interface {
	PinJSON(ctx context.Context, payload []byte) (PinResult, error)
	Fetch(ctx context.Context, address string) ([]byte, error)
}
