// Package service derives point-in-time credential status from ledger state
// plus a clock, and confirms fetched metadata against the on-ledger
// commitment before anyone displays it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	contract "skillpass/contracts/ledger"
	"skillpass/internal/content"
	"skillpass/internal/ledger"
	"skillpass/internal/verification/metrics"
	"skillpass/internal/verification/models"
	"skillpass/internal/verification/tracer"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/middleware/requesttime"
	"skillpass/pkg/sentinel"
)

// ContentFetcher retrieves metadata and enforces the integrity check against
// the committed hash.
type ContentFetcher interface {
	Fetch(ctx context.Context, address string, expected id.ContentHash) (content.Metadata, error)
}

// Option configures the verification service.
type Option func(*Service)

// Service answers status, expiry, and metadata queries. It performs no
// writes; reads reflect all ledger writes completed before the call.
type Service struct {
	ledger  ledger.Store
	content ContentFetcher
	tracer  tracer.Tracer
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates a verification service over the given ledger.
func NewService(ledgerStore ledger.Store, opts ...Option) *Service {
	svc := &Service{
		ledger: ledgerStore,
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithContent configures a content fetcher for metadata queries.
func WithContent(fetcher ContentFetcher) Option {
	return func(s *Service) {
		s.content = fetcher
	}
}

// WithTracer configures a tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics configures verification metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Status derives the verification status of a credential at the
// request-scoped time. A credential that never existed reports expired=true
// with no issuer, by convention: a casual caller cannot distinguish "never
// existed" from "expired". Callers needing that distinction use Details and
// inspect Exists.
func (s *Service) Status(ctx context.Context, credID id.CredentialID) (models.Status, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanStatus,
		tracer.String(tracer.AttrCredentialID, credID.String()),
	)

	start := time.Now()
	status, err := s.statusAt(ctx, credID, requesttime.Now(ctx))
	if err != nil {
		span.End(err)
		return models.Status{}, err
	}

	label := status.Classify()
	span.SetAttributes(
		tracer.String(tracer.AttrStatusLabel, string(label)),
		tracer.Bool(tracer.AttrExpired, status.Expired),
		tracer.Bool(tracer.AttrRevoked, status.Revoked),
	)
	span.End(nil)

	if s.metrics != nil {
		s.metrics.VerificationsTotal.WithLabelValues(string(label)).Inc()
		s.metrics.StatusDurationSeconds.Observe(time.Since(start).Seconds())
	}
	return status, nil
}

// CheckExpiry is the status expiry predicate exposed on its own. It returns
// true for non-existent IDs, the same convention Status follows, so the two
// always agree.
func (s *Service) CheckExpiry(ctx context.Context, credID id.CredentialID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCheckExpiry,
		tracer.String(tracer.AttrCredentialID, credID.String()),
	)

	status, err := s.statusAt(ctx, credID, requesttime.Now(ctx))
	span.End(err)
	if err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.ExpiryChecksTotal.Inc()
	}
	return status.Expired, nil
}

// Details returns the raw capability-surface view of a record. A non-existent
// ID yields Exists=false rather than an error, matching the ledger contract.
func (s *Service) Details(ctx context.Context, credID id.CredentialID) (contract.CredentialDetails, error) {
	record, err := s.ledger.Get(ctx, credID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return contract.CredentialDetails{CredentialID: uint64(credID), Exists: false}, nil
	}
	if err != nil {
		return contract.CredentialDetails{}, dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "ledger read failed")
	}
	return record.Details(), nil
}

// FetchMetadata retrieves the off-ledger document for a credential and
// verifies it against the committed hash. The blob is fetched at the store
// address recorded with the commitment; stores that assign their own
// addresses (Pinata) place the blob somewhere other than the hash. A
// committed hash whose blob is unfetchable surfaces as a storage error, not
// an invalid credential; re-pinning the same document reconciles it.
func (s *Service) FetchMetadata(ctx context.Context, credID id.CredentialID) (content.Metadata, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFetchMetadata,
		tracer.String(tracer.AttrCredentialID, credID.String()),
	)

	if s.content == nil {
		err := dErrors.New(dErrors.CodeInternal, "content store unavailable")
		span.End(err)
		return content.Metadata{}, err
	}

	record, err := s.ledger.Get(ctx, credID)
	if errors.Is(err, sentinel.ErrNotFound) {
		err = dErrors.New(dErrors.CodeNotFound, "credential does not exist")
		span.End(err)
		return content.Metadata{}, err
	}
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "ledger read failed")
		span.End(err)
		return content.Metadata{}, err
	}

	address := record.StoreAddress
	if address == "" {
		// Rows written before store addresses were recorded; those stores
		// used the commitment itself as the address.
		address = record.ContentHash.String()
	}

	metadata, err := s.content.Fetch(ctx, address, record.ContentHash)
	span.End(err)
	return metadata, err
}

// CredentialsOf lists the credential IDs issued to a student in issuance
// order. Revocation does not affect the listing.
func (s *Service) CredentialsOf(ctx context.Context, student id.Address) ([]id.CredentialID, error) {
	ids, err := s.ledger.CredentialsOf(ctx, student)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "ledger read failed")
	}
	return ids, nil
}

// statusAt derives the status from the record's tagged state and the clock.
func (s *Service) statusAt(ctx context.Context, credID id.CredentialID, now time.Time) (models.Status, error) {
	record, err := s.ledger.Get(ctx, credID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Status{Exists: false, Expired: true}, nil
	}
	if err != nil {
		return models.Status{}, dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "ledger read failed")
	}

	expired := record.Expired(now)
	revoked := record.Revoked()
	return models.Status{
		Exists:  true,
		Valid:   !expired && !revoked,
		Expired: expired,
		Revoked: revoked,
		Issuer:  record.Issuer,
	}, nil
}
