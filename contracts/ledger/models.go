package ledger

// ContractVersion identifies the schema for the ledger capability surface
// shared with external consumers of the registry.
const ContractVersion = "v0.1.0"

// CredentialDetails is the durable ledger view of one issued credential.
type CredentialDetails struct {
	CredentialID uint64 `json:"credential_id"`
	ContentHash  string `json:"content_hash"`
	Expiry       int64  `json:"expiry"`
	Issuer       string `json:"issuer"`
	Revoked      bool   `json:"revoked"`
	Exists       bool   `json:"exists"`
}

// VerifyResult is the boolean-triple status contract kept for wire
// compatibility. Consumers collapse it to a single label with the fixed
// precedence Valid > Expired > Revoked > Invalid.
type VerifyResult struct {
	Valid   bool   `json:"valid"`
	Expired bool   `json:"expired"`
	Revoked bool   `json:"revoked"`
	Issuer  string `json:"issuer"`
}
