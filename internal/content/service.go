package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"skillpass/internal/content/cache"
	"skillpass/internal/content/metrics"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/sentinel"
)

// Pinned describes a stored metadata document: the ledger commitment hash,
// the store address, and the pinned size.
type Pinned struct {
	Hash    id.ContentHash
	Address string
	Size    int64
}

// Service is the content-addressing layer: pure hashing plus a stateless
// bridge to the external store. It holds no long-lived domain state.
type Service struct {
	store   Store
	cache   cache.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	pins    singleflight.Group
}

// Option configures the content service.
type Option func(*Service)

// WithCache configures a blob cache consulted before the external store.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics configures content metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a content service over the given store.
func NewService(store Store, opts ...Option) *Service {
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Pin canonicalizes and stores the metadata, returning the commitment hash
// and the store address. Concurrent pins of identical content collapse into
// one store call, keyed by the computed hash; by content-addressing semantics
// a repeated pin is a no-op, so Pin is also the reconciliation path for a
// committed hash whose blob never stored.
func (s *Service) Pin(ctx context.Context, m Metadata) (Pinned, error) {
	b, err := CanonicalBytes(m)
	if err != nil {
		return Pinned{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to canonicalize metadata")
	}
	hash, err := HashBytes(b)
	if err != nil {
		return Pinned{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash metadata")
	}

	start := time.Now()
	v, err, _ := s.pins.Do(hash.String(), func() (any, error) {
		return s.store.PinJSON(ctx, b)
	})
	if s.metrics != nil {
		s.metrics.PinDurationSeconds.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.PinsTotal.WithLabelValues("error").Inc()
		}
		return Pinned{}, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "failed to pin metadata")
	}
	if s.metrics != nil {
		s.metrics.PinsTotal.WithLabelValues("ok").Inc()
	}

	result := v.(PinResult)
	return Pinned{Hash: hash, Address: result.Address, Size: result.Size}, nil
}

// Fetch retrieves the metadata at the given address and verifies it against
// the committed hash before returning it. A blob that cannot be fetched for a
// committed hash is a storage failure, not an invalid credential; a blob that
// fetches but does not hash to the commitment is an integrity violation.
func (s *Service) Fetch(ctx context.Context, address string, expected id.ContentHash) (Metadata, error) {
	blob, err := s.lookup(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			if s.metrics != nil {
				s.metrics.FetchesTotal.WithLabelValues("miss").Inc()
			}
			return Metadata{}, dErrors.New(dErrors.CodeStorageUnavailable,
				"metadata blob missing from store; re-pin required")
		}
		if s.metrics != nil {
			s.metrics.FetchesTotal.WithLabelValues("error").Inc()
		}
		return Metadata{}, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "failed to fetch metadata")
	}

	var m Metadata
	if err := json.Unmarshal(blob, &m); err != nil {
		s.recordIntegrity(false)
		return Metadata{}, dErrors.New(dErrors.CodeIntegrityViolation, "fetched metadata is not a valid document")
	}

	// Fast path: the store returned the exact canonical bytes. Fall back to
	// re-deriving the commitment from the parsed document for stores that
	// re-serialize on ingest.
	if rawHash, err := HashBytes(blob); err != nil || rawHash != expected {
		if !VerifyIntegrity(m, expected) {
			s.recordIntegrity(false)
			if s.logger != nil {
				s.logger.WarnContext(ctx, "metadata integrity check failed",
					"address", address,
					"expected_hash", expected,
				)
			}
			return Metadata{}, dErrors.New(dErrors.CodeIntegrityViolation,
				"fetched metadata does not match committed hash")
		}
	}
	s.recordIntegrity(true)

	if s.metrics != nil {
		s.metrics.FetchesTotal.WithLabelValues("ok").Inc()
	}
	return m, nil
}

// lookup consults the cache first, then the store, populating the cache on a
// store hit. Cache failures degrade to store reads.
func (s *Service) lookup(ctx context.Context, address string) ([]byte, error) {
	if s.cache != nil {
		blob, err := s.cache.Get(ctx, address)
		if err == nil {
			if s.metrics != nil {
				s.metrics.CacheHitsTotal.Inc()
			}
			return blob, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
			s.logger.WarnContext(ctx, "metadata cache read failed", "error", err)
		}
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
	}

	blob, err := s.store.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, address, blob); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "metadata cache write failed", "error", err)
		}
	}
	return blob, nil
}

func (s *Service) recordIntegrity(ok bool) {
	if s.metrics == nil {
		return
	}
	if ok {
		s.metrics.IntegrityChecksTotal.WithLabelValues("ok").Inc()
		return
	}
	s.metrics.IntegrityChecksTotal.WithLabelValues("mismatch").Inc()
}
