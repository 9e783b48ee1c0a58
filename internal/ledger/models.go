// Package ledger holds the authoritative, append-only record of issued
// credentials. Records move through a single state machine,
// NonExistent -> Active -> Revoked, where Revoked is absorbing. Expiry is
// never stored as state; it is derived at read time from the record's expiry
// timestamp and a caller-supplied clock.
package ledger

import (
	"time"

	contract "skillpass/contracts/ledger"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
)

// State is the stored lifecycle state of a credential record. Expired is
// deliberately absent: it is a read-time predicate, not a state.
type State string

const (
	StateActive  State = "active"
	StateRevoked State = "revoked"
)

// Record is the ledger's durable entry for one issued credential.
// ContentHash, Expiry, Issuer, and Student are immutable once set; State is
// the only field that changes after creation, exactly once. StoreAddress is
// where the content store placed the metadata blob; stores that assign their
// own addresses (Pinata) make it differ from the commitment hash, so it must
// be recorded or the blob is unreachable later.
type Record struct {
	ID           id.CredentialID
	Student      id.Address
	Issuer       id.Address
	ContentHash  id.ContentHash
	StoreAddress string
	Expiry       time.Time
	IssuedAt     time.Time
	State        State
}

// Revoked reports whether the record has reached the terminal state.
func (r Record) Revoked() bool { return r.State == StateRevoked }

// Expired reports whether the record's expiry has passed at the given time.
// The boundary is inclusive: a credential expires the instant now == expiry.
func (r Record) Expired(now time.Time) bool { return !now.Before(r.Expiry) }

// Details converts the record to the shared wire contract, including the
// exists flag for consumers of the raw capability surface.
func (r Record) Details() contract.CredentialDetails {
	return contract.CredentialDetails{
		CredentialID: uint64(r.ID),
		ContentHash:  r.ContentHash.String(),
		Expiry:       r.Expiry.Unix(),
		Issuer:       r.Issuer.String(),
		Revoked:      r.Revoked(),
		Exists:       true,
	}
}

// IssueParams carries the inputs for creating a record. Now is the
// request-scoped clock against which the expiry is validated.
type IssueParams struct {
	Student      id.Address
	Issuer       id.Address
	ContentHash  id.ContentHash
	StoreAddress string
	Expiry       time.Time
	Now          time.Time
}

// Validate enforces the ledger's issuance preconditions. Authorization of
// the issuer is the caller's responsibility; these are the record-level rules.
func (p IssueParams) Validate() error {
	if p.Student.IsZero() {
		return dErrors.New(dErrors.CodeInvalidStudent, "student address must not be the zero identity")
	}
	if !p.Expiry.After(p.Now) {
		return dErrors.New(dErrors.CodeInvalidExpiry, "expiry must be strictly in the future")
	}
	return nil
}

// Issued is the result of a successful issuance: the created record plus the
// transaction hash receipt for the write.
type Issued struct {
	Record Record
	TxHash string
}
