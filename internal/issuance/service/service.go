// Package service orchestrates the credential issuance and revocation flows:
// authorization gate, metadata pin, then ledger commit. The required
// sequencing is store-then-commit; the content hash must exist before it can
// be committed.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"skillpass/internal/content"
	"skillpass/internal/issuance/metrics"
	"skillpass/internal/ledger"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/audit"
	"skillpass/pkg/platform/middleware/requesttime"
	"skillpass/pkg/sentinel"
)

// AuthRegistry is the authorization gate consulted before minting.
type AuthRegistry interface {
	IsApproved(ctx context.Context, addr id.Address) bool
}

// ContentService pins credential metadata and returns its commitment.
type ContentService interface {
	Pin(ctx context.Context, m content.Metadata) (content.Pinned, error)
}

// AuditPublisher emits audit events for credential lifecycle actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// IssueRequest carries a validated issuance request.
type IssueRequest struct {
	Student id.Address
	Issuer  id.Address
	Data    map[string]any
	Expiry  time.Time
}

// IssueResult is returned on successful issuance. The ID comes back directly
// as part of the result value, never through a side channel.
type IssueResult struct {
	CredentialID id.CredentialID
	ContentHash  id.ContentHash
	StoreAddress string
	TxHash       string
	Expiry       time.Time
}

// Option configures the issuance service.
type Option func(*Service)

// Service performs credential mutations against the ledger.
type Service struct {
	ledger  ledger.Store
	issuers AuthRegistry
	content ContentService
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates an issuance service with the required dependencies.
func NewService(ledgerStore ledger.Store, issuers AuthRegistry, contentSvc ContentService, opts ...Option) *Service {
	svc := &Service{
		ledger:  ledgerStore,
		issuers: issuers,
		content: contentSvc,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithAuditor configures an audit publisher for the service.
func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics configures issuance metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Issue mints a new credential: checks the authorization gate, validates the
// record preconditions, pins the metadata, and commits the hash to the
// ledger. Pin and commit are two separate operations with no two-phase
// guarantee; a pin whose commit later fails leaves an orphaned blob, which is
// harmless, while the reverse order could commit an unfetchable hash.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	start := time.Now()
	now := requesttime.Now(ctx)

	if !s.issuers.IsApproved(ctx, req.Issuer) {
		return nil, s.failIssue(dErrors.New(dErrors.CodeNotApprovedIssuer, "issuer is not approved to mint credentials"))
	}

	params := ledger.IssueParams{
		Student: req.Student,
		Issuer:  req.Issuer,
		Expiry:  req.Expiry,
		Now:     now,
	}
	if err := params.Validate(); err != nil {
		return nil, s.failIssue(err)
	}

	metadata := content.NewMetadata(req.Student, req.Data, now, req.Issuer)
	pinned, err := s.content.Pin(ctx, metadata)
	if err != nil {
		return nil, s.failIssue(err)
	}
	params.ContentHash = pinned.Hash
	params.StoreAddress = pinned.Address

	issued, err := s.ledger.Issue(ctx, params)
	if err != nil {
		// The write outcome is unknown; this must not be reported as success,
		// and the caller must re-query ledger state before retrying to avoid
		// a duplicate submission.
		return nil, s.failIssue(dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "ledger write failed or outcome unknown"))
	}

	s.emitAudit(ctx, audit.Event{
		Actor:    req.Issuer,
		Subject:  issued.Record.ID.String(),
		Action:   audit.EventCredentialIssued,
		Decision: "issued",
	})
	if s.metrics != nil {
		s.metrics.IssuedTotal.Inc()
		s.metrics.IssueDurationSeconds.Observe(time.Since(start).Seconds())
	}

	return &IssueResult{
		CredentialID: issued.Record.ID,
		ContentHash:  pinned.Hash,
		StoreAddress: pinned.Address,
		TxHash:       issued.TxHash,
		Expiry:       issued.Record.Expiry,
	}, nil
}

// Revoke marks a credential revoked. Only the issuing address may revoke, and
// only once; the second caller observes AlreadyRevoked.
func (s *Service) Revoke(ctx context.Context, caller id.Address, credID id.CredentialID) (string, error) {
	if caller.IsZero() {
		return "", s.failRevoke(dErrors.New(dErrors.CodeUnauthorized, "caller identity required"))
	}
	if credID.IsZero() {
		return "", s.failRevoke(dErrors.New(dErrors.CodeInvalidInput, "credential ID is required"))
	}

	txHash, err := s.ledger.Revoke(ctx, caller, credID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return "", s.failRevoke(dErrors.New(dErrors.CodeNotFound, "credential does not exist"))
		case errors.Is(err, sentinel.ErrNotIssuer):
			return "", s.failRevoke(dErrors.New(dErrors.CodeNotIssuer, "only the issuing address may revoke this credential"))
		case errors.Is(err, sentinel.ErrAlreadyRevoked):
			return "", s.failRevoke(dErrors.New(dErrors.CodeAlreadyRevoked, "credential is already revoked"))
		default:
			return "", s.failRevoke(dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "ledger write failed or outcome unknown"))
		}
	}

	s.emitAudit(ctx, audit.Event{
		Actor:    caller,
		Subject:  credID.String(),
		Action:   audit.EventCredentialRevoked,
		Decision: "revoked",
	})
	if s.metrics != nil {
		s.metrics.RevokedTotal.Inc()
	}
	return txHash, nil
}

func (s *Service) failIssue(err error) error {
	if s.metrics != nil {
		s.metrics.IssueFailuresTotal.WithLabelValues(codeOf(err)).Inc()
	}
	return err
}

func (s *Service) failRevoke(err error) error {
	if s.metrics != nil {
		s.metrics.RevokeFailuresTotal.WithLabelValues(codeOf(err)).Inc()
	}
	return err
}

func codeOf(err error) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return string(domainErr.Code)
	}
	return string(dErrors.CodeInternal)
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit credential audit event",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}
