package handler

import (
	"strings"

	dErrors "skillpass/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.

type SetIssuerRequest struct {
	Issuer   string `json:"issuer"`
	Approved bool   `json:"approved"`
}

func (r *SetIssuerRequest) Normalize() {
	if r == nil {
		return
	}
	r.Issuer = strings.TrimSpace(r.Issuer)
}

func (r *SetIssuerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Issuer == "" {
		return dErrors.New(dErrors.CodeValidation, "issuer is required")
	}
	return nil
}
