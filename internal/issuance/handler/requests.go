package handler

import (
	"strings"

	dErrors "skillpass/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// Field names follow the public API contract.

// MaxExpiryDays caps requested credential lifetimes to keep expiry arithmetic
// inside sane bounds (about 270 years).
const MaxExpiryDays = 100_000

type IssueRequest struct {
	StudentAddress string         `json:"studentAddress"`
	CredentialData map[string]any `json:"credentialData"`
	ExpiryDays     int64          `json:"expiryDays"`
}

func (r *IssueRequest) Normalize() {
	if r == nil {
		return
	}
	r.StudentAddress = strings.TrimSpace(r.StudentAddress)
}

func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.StudentAddress == "" {
		return dErrors.New(dErrors.CodeInvalidStudent, "studentAddress is required")
	}
	if len(r.CredentialData) == 0 {
		return dErrors.New(dErrors.CodeValidation, "credentialData is required")
	}
	if r.ExpiryDays <= 0 {
		return dErrors.New(dErrors.CodeInvalidExpiry, "expiryDays must be positive")
	}
	if r.ExpiryDays > MaxExpiryDays {
		return dErrors.New(dErrors.CodeInvalidExpiry, "expiryDays is too large")
	}
	return nil
}

type RevokeRequest struct {
	CredentialID string `json:"credentialId"`
}

func (r *RevokeRequest) Normalize() {
	if r == nil {
		return
	}
	r.CredentialID = strings.TrimSpace(r.CredentialID)
}

func (r *RevokeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.CredentialID == "" {
		return dErrors.New(dErrors.CodeValidation, "credentialId is required")
	}
	return nil
}
