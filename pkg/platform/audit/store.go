package audit

import "context"

// Store persists audit events. Implementations must be append-only; events
// are never updated or deleted.
type Store interface {
	Append(ctx context.Context, event Event) error
}
