// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strconv"
	"strings"

	dErrors "skillpass/pkg/domain-errors"
)

// Address is a 20-byte account identity in 0x-prefixed hex form, normalized
// to lowercase. It identifies owners, issuers, and students.
type Address string

// ZeroAddress is the null identity. Issuing to it is rejected.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// CredentialID identifies one credential record on the ledger. IDs start at 1
// and are strictly increasing; 0 is never a valid ID.
type CredentialID uint64

// ContentHash is the content-addressed commitment binding off-ledger metadata
// to a credential record. Its concrete format is owned by the content layer.
type ContentHash string

// ParseAddress validates and normalizes a 0x-prefixed hex address.
// Use at trust boundaries (handlers, API inputs).
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be a 0x-prefixed 40-character hex string")
	}
	for _, c := range s[2:] {
		if !isHexDigit(c) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "address contains non-hex characters")
		}
	}
	return Address(strings.ToLower(s)), nil
}

// ParseCredentialID parses a decimal credential ID.
func ParseCredentialID(s string) (CredentialID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credential ID cannot be empty")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credential ID must be a positive integer")
	}
	if n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credential ID must be positive")
	}
	return CredentialID(n), nil
}

// String methods - for logging and wire encoding.

func (a Address) String() string       { return string(a) }
func (id CredentialID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (h ContentHash) String() string   { return string(h) }

// IsZero checks - used for service-layer validation.

func (a Address) IsZero() bool       { return a == "" || a == ZeroAddress }
func (id CredentialID) IsZero() bool { return id == 0 }
func (h ContentHash) IsZero() bool   { return h == "" }

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
