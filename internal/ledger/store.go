package ledger

import (
	"context"

	id "skillpass/pkg/domain"
)

// Store is the backing store for the credential ledger. Implementations must
// guarantee:
//
//   - IDs start at 1 and are strictly increasing across the store's lifetime;
//     an ID is never reused, even after revocation. Gaps are acceptable.
//   - Issue is atomic: either the full record exists or nothing does.
//   - Revoke is mutually exclusive per ID; of two concurrent revokes one
//     succeeds and the other observes sentinel.ErrAlreadyRevoked.
//   - Reads never block writes against other IDs.
//
// Stores return sentinel errors (sentinel.ErrNotFound, sentinel.ErrNotIssuer,
// sentinel.ErrAlreadyRevoked); services translate them into domain errors
// exactly once.
type Store interface {
	// Issue creates a record and returns it with its assigned ID and a
	// transaction hash receipt. Params are assumed validated.
	Issue(ctx context.Context, params IssueParams) (Issued, error)

	// Revoke transitions the record to Revoked. Only the issuing address may
	// revoke, and only once.
	Revoke(ctx context.Context, caller id.Address, credID id.CredentialID) (txHash string, err error)

	// Get returns the record for the given ID or sentinel.ErrNotFound.
	Get(ctx context.Context, credID id.CredentialID) (Record, error)

	// CredentialsOf returns the IDs issued to a student, in issuance order.
	// Revocation does not affect the result. Unknown students yield an empty
	// slice, not an error.
	CredentialsOf(ctx context.Context, student id.Address) ([]id.CredentialID, error)
}
