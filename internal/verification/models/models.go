// Package models defines the point-in-time verification status contract.
package models

import (
	contract "skillpass/contracts/ledger"
	id "skillpass/pkg/domain"
)

// Label is the single display classification of a credential.
type Label string

const (
	LabelValid   Label = "Valid"
	LabelExpired Label = "Expired"
	LabelRevoked Label = "Revoked"
	LabelInvalid Label = "Invalid"
)

// Status is a point-in-time verification result derived from ledger state
// plus a clock. It is never stored; the ledger holds a single tagged state
// and the booleans are derived, so impossible combinations (valid and
// revoked at once) cannot arise.
type Status struct {
	Exists  bool
	Valid   bool
	Expired bool
	Revoked bool
	Issuer  id.Address
}

// Classify collapses the boolean triple into one label with the fixed
// precedence Valid > Expired > Revoked > Invalid. Expired is checked before
// Revoked, so a credential that is both reports Expired. This precedence is
// an observable contract; do not reorder.
func (s Status) Classify() Label {
	switch {
	case s.Valid:
		return LabelValid
	case s.Expired:
		return LabelExpired
	case s.Revoked:
		return LabelRevoked
	default:
		return LabelInvalid
	}
}

// Wire converts the status to the shared boolean-triple contract.
func (s Status) Wire() contract.VerifyResult {
	return contract.VerifyResult{
		Valid:   s.Valid,
		Expired: s.Expired,
		Revoked: s.Revoked,
		Issuer:  s.Issuer.String(),
	}
}
