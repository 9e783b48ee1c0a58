package audit

import (
	"time"

	id "skillpass/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time  `json:"timestamp"`
	Actor     id.Address `json:"actor"`
	Subject   string     `json:"subject"`
	Action    string     `json:"action"`
	Decision  string     `json:"decision"`
	Reason    string     `json:"reason,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
}

const (
	EventIssuerApproved    = "issuer_approved"
	EventIssuerRemoved     = "issuer_removed"
	EventCredentialIssued  = "credential_issued"
	EventCredentialRevoked = "credential_revoked"
)
