// Package issuers tracks which identities may mint credentials. The set is
// owned by a single administrative identity; everyone else gets read-only
// lookups.
package issuers

import (
	"context"
	"log/slog"
	"sync"

	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/audit"
)

// AuditPublisher emits audit events for issuer set mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Registry is the authorization registry: an explicit repository object with
// an explicit owner, so tests can construct isolated instances. The owner is
// bootstrap-approved at construction and cannot be removed through
// SetApprovedIssuer.
type Registry struct {
	owner   id.Address
	mu      sync.RWMutex
	entries map[id.Address]bool

	auditor AuditPublisher
	logger  *slog.Logger
}

// Option configures the registry.
type Option func(*Registry)

// WithAuditor configures an audit publisher for issuer set mutations.
func WithAuditor(auditor AuditPublisher) Option {
	return func(r *Registry) {
		r.auditor = auditor
	}
}

// WithLogger configures a logger for the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry owned by the given address. The owner enters
// the set approved; this is the one-time bootstrap rule, not a runtime branch.
func NewRegistry(owner id.Address, opts ...Option) *Registry {
	r := &Registry{
		owner:   owner,
		entries: map[id.Address]bool{owner: true},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Owner returns the administrative identity.
func (r *Registry) Owner() id.Address {
	return r.owner
}

// SetApprovedIssuer grants or removes minting rights for an issuer. Only the
// owner may mutate the set.
func (r *Registry) SetApprovedIssuer(ctx context.Context, caller, issuer id.Address, approved bool) error {
	if caller != r.owner {
		return dErrors.New(dErrors.CodeNotOwner, "only the registry owner may manage issuers")
	}
	if issuer.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "issuer address must not be the zero identity")
	}

	r.mu.Lock()
	r.entries[issuer] = approved
	r.mu.Unlock()

	action := audit.EventIssuerApproved
	if !approved {
		action = audit.EventIssuerRemoved
	}
	r.emitAudit(ctx, audit.Event{
		Actor:    caller,
		Subject:  issuer.String(),
		Action:   action,
		Decision: "applied",
	})
	return nil
}

// IsApproved reports whether the identity may mint credentials. Unknown
// identities default to false; the lookup never fails.
func (r *Registry) IsApproved(_ context.Context, addr id.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[addr]
}

func (r *Registry) emitAudit(ctx context.Context, event audit.Event) {
	if r.auditor == nil {
		return
	}
	if err := r.auditor.Emit(ctx, event); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "failed to emit issuer audit event",
			"action", event.Action,
			"issuer", event.Subject,
			"error", err,
		)
	}
}
