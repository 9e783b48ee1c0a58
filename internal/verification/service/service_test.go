package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillpass/internal/content"
	issuanceservice "skillpass/internal/issuance/service"
	"skillpass/internal/ledger"
	ledgerstore "skillpass/internal/ledger/store"
	"skillpass/internal/verification/models"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/middleware/requesttime"
	"skillpass/pkg/sentinel"
)

var (
	student = id.Address("0x1111111111111111111111111111111111111111")
	issuer  = id.Address("0x2222222222222222222222222222222222222222")
)

func fixedNow() time.Time {
	return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
}

func ctxAt(t time.Time) context.Context {
	return requesttime.WithTime(context.Background(), t)
}

func mustIssue(t *testing.T, store ledger.Store, expiry time.Time) ledger.Issued {
	t.Helper()
	issued, err := store.Issue(context.Background(), ledger.IssueParams{
		Student:     student,
		Issuer:      issuer,
		ContentHash: "bafyexample",
		Expiry:      expiry,
		Now:         fixedNow(),
	})
	require.NoError(t, err)
	return issued
}

func TestStatusActiveCredential(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	issued := mustIssue(t, store, fixedNow().Add(24*time.Hour))
	svc := NewService(store)

	status, err := svc.Status(ctxAt(fixedNow()), issued.Record.ID)
	require.NoError(t, err)

	assert.Equal(t, models.Status{
		Exists: true,
		Valid:  true,
		Issuer: issuer,
	}, status)
	assert.Equal(t, models.LabelValid, status.Classify())
}

func TestStatusExpiredCredential(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	expiry := fixedNow().Add(time.Hour)
	issued := mustIssue(t, store, expiry)
	svc := NewService(store)

	// Valid one second before expiry, expired at the boundary.
	status, err := svc.Status(ctxAt(expiry.Add(-time.Second)), issued.Record.ID)
	require.NoError(t, err)
	assert.True(t, status.Valid)

	status, err = svc.Status(ctxAt(expiry), issued.Record.ID)
	require.NoError(t, err)
	assert.True(t, status.Expired)
	assert.False(t, status.Valid)
	assert.Equal(t, models.LabelExpired, status.Classify())
}

func TestStatusRevokedCredential(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	issued := mustIssue(t, store, fixedNow().Add(24*time.Hour))
	_, err := store.Revoke(context.Background(), issuer, issued.Record.ID)
	require.NoError(t, err)
	svc := NewService(store)

	status, err := svc.Status(ctxAt(fixedNow()), issued.Record.ID)
	require.NoError(t, err)
	assert.True(t, status.Revoked)
	assert.False(t, status.Valid)
	assert.Equal(t, models.LabelRevoked, status.Classify())
}

func TestStatusExpiredBeatsRevoked(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	expiry := fixedNow().Add(time.Hour)
	issued := mustIssue(t, store, expiry)
	_, err := store.Revoke(context.Background(), issuer, issued.Record.ID)
	require.NoError(t, err)
	svc := NewService(store)

	status, err := svc.Status(ctxAt(expiry.Add(time.Hour)), issued.Record.ID)
	require.NoError(t, err)
	assert.True(t, status.Expired)
	assert.True(t, status.Revoked)
	assert.Equal(t, models.LabelExpired, status.Classify())
}

func TestStatusNeverIssuedReportsExpired(t *testing.T) {
	svc := NewService(ledgerstore.NewMemoryStore())

	status, err := svc.Status(ctxAt(fixedNow()), 999)
	require.NoError(t, err, "a non-existent id is an answer, not an error")

	assert.False(t, status.Exists)
	assert.False(t, status.Valid)
	assert.True(t, status.Expired)
	assert.False(t, status.Revoked)
	assert.Equal(t, id.Address(""), status.Issuer)
}

func TestCheckExpiryAgreesWithStatus(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	expiry := fixedNow().Add(time.Hour)
	issued := mustIssue(t, store, expiry)
	svc := NewService(store)

	for _, at := range []time.Time{expiry.Add(-time.Minute), expiry, expiry.Add(time.Minute)} {
		ctx := ctxAt(at)
		status, err := svc.Status(ctx, issued.Record.ID)
		require.NoError(t, err)
		expired, err := svc.CheckExpiry(ctx, issued.Record.ID)
		require.NoError(t, err)
		assert.Equal(t, status.Expired, expired, "at %s", at)
	}

	// Non-existent ids agree too.
	expired, err := svc.CheckExpiry(ctxAt(fixedNow()), 999)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestDetails(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	issued := mustIssue(t, store, fixedNow().Add(24*time.Hour))
	svc := NewService(store)

	details, err := svc.Details(context.Background(), issued.Record.ID)
	require.NoError(t, err)
	assert.True(t, details.Exists)
	assert.Equal(t, uint64(issued.Record.ID), details.CredentialID)
	assert.Equal(t, "bafyexample", details.ContentHash)
	assert.Equal(t, issuer.String(), details.Issuer)

	missing, err := svc.Details(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, missing.Exists)
}

func TestFetchMetadata(t *testing.T) {
	ledgerStore := ledgerstore.NewMemoryStore()
	contentSvc := content.NewService(content.NewMemoryStore())
	ctx := ctxAt(fixedNow())

	metadata := content.NewMetadata(student, map[string]any{"course": "Compilers"}, fixedNow(), issuer)
	pinned, err := contentSvc.Pin(ctx, metadata)
	require.NoError(t, err)

	issued, err := ledgerStore.Issue(ctx, ledger.IssueParams{
		Student:     student,
		Issuer:      issuer,
		ContentHash: pinned.Hash,
		Expiry:      fixedNow().Add(24 * time.Hour),
		Now:         fixedNow(),
	})
	require.NoError(t, err)

	svc := NewService(ledgerStore, WithContent(contentSvc))

	got, err := svc.FetchMetadata(ctx, issued.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, metadata, got)
}

// providerStore assigns its own blob addresses, the way a pinning provider
// does, instead of addressing blobs by their hash.
type providerStore struct {
	mu    sync.Mutex
	next  int
	blobs map[string][]byte
}

func newProviderStore() *providerStore {
	return &providerStore{blobs: make(map[string][]byte)}
}

func (s *providerStore) PinJSON(_ context.Context, payload []byte) (content.PinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	address := fmt.Sprintf("QmProvider%03d", s.next)
	s.blobs[address] = append([]byte(nil), payload...)
	return content.PinResult{Address: address, Size: int64(len(payload))}, nil
}

func (s *providerStore) Fetch(_ context.Context, address string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if blob, ok := s.blobs[address]; ok {
		return blob, nil
	}
	return nil, sentinel.ErrNotFound
}

// approveAll lets any address mint.
type approveAll struct{}

func (approveAll) IsApproved(context.Context, id.Address) bool { return true }

func TestFetchMetadataStoreAssignedAddress(t *testing.T) {
	ledgerStore := ledgerstore.NewMemoryStore()
	contentSvc := content.NewService(newProviderStore())
	ctx := ctxAt(fixedNow())

	data := map[string]any{"course": "Distributed Systems"}
	issueSvc := issuanceservice.NewService(ledgerStore, approveAll{}, contentSvc)
	result, err := issueSvc.Issue(ctx, issuanceservice.IssueRequest{
		Student: student,
		Issuer:  issuer,
		Data:    data,
		Expiry:  fixedNow().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NotEqual(t, result.ContentHash.String(), result.StoreAddress,
		"the store chose an address that differs from the commitment")

	record, err := ledgerStore.Get(ctx, result.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, result.StoreAddress, record.StoreAddress)

	// The blob lives only at the provider's address; a fetch for a freshly
	// issued, fully pinned credential must still succeed.
	svc := NewService(ledgerStore, WithContent(contentSvc))
	got, err := svc.FetchMetadata(ctx, result.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, content.NewMetadata(student, data, fixedNow(), issuer), got)
}

func TestFetchMetadataUnknownCredential(t *testing.T) {
	svc := NewService(ledgerstore.NewMemoryStore(), WithContent(content.NewService(content.NewMemoryStore())))

	_, err := svc.FetchMetadata(ctxAt(fixedNow()), 999)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestFetchMetadataMissingBlob(t *testing.T) {
	ledgerStore := ledgerstore.NewMemoryStore()
	contentStore := content.NewMemoryStore()
	contentSvc := content.NewService(contentStore)
	ctx := ctxAt(fixedNow())

	metadata := content.NewMetadata(student, map[string]any{"course": "Networks"}, fixedNow(), issuer)
	pinned, err := contentSvc.Pin(ctx, metadata)
	require.NoError(t, err)

	issued, err := ledgerStore.Issue(ctx, ledger.IssueParams{
		Student:     student,
		Issuer:      issuer,
		ContentHash: pinned.Hash,
		Expiry:      fixedNow().Add(24 * time.Hour),
		Now:         fixedNow(),
	})
	require.NoError(t, err)

	contentStore.Delete(pinned.Address)

	svc := NewService(ledgerStore, WithContent(contentSvc))
	_, err = svc.FetchMetadata(ctx, issued.Record.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorageUnavailable),
		"an unfetchable blob for a committed hash is a storage failure, not an invalid credential")
}

func TestCredentialsOf(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	first := mustIssue(t, store, fixedNow().Add(24*time.Hour))
	second := mustIssue(t, store, fixedNow().Add(48*time.Hour))
	svc := NewService(store)

	ids, err := svc.CredentialsOf(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, []id.CredentialID{first.Record.ID, second.Record.ID}, ids)
}

// TestLifecycleScenario walks the full credential lifecycle across two
// credentials plus a never-issued id.
func TestLifecycleScenario(t *testing.T) {
	store := ledgerstore.NewMemoryStore()
	svc := NewService(store)
	ctx := ctxAt(fixedNow())

	shortLived := mustIssue(t, store, fixedNow().Add(time.Hour))
	longLived := mustIssue(t, store, fixedNow().Add(30*24*time.Hour))
	require.Equal(t, id.CredentialID(1), shortLived.Record.ID)
	require.Equal(t, id.CredentialID(2), longLived.Record.ID)

	// Both valid now.
	for _, credID := range []id.CredentialID{1, 2} {
		status, err := svc.Status(ctx, credID)
		require.NoError(t, err)
		assert.Equal(t, models.LabelValid, status.Classify())
	}

	// Revoke the long-lived one; the short-lived one later expires.
	_, err := store.Revoke(context.Background(), issuer, longLived.Record.ID)
	require.NoError(t, err)

	later := ctxAt(fixedNow().Add(2 * time.Hour))
	status, err := svc.Status(later, shortLived.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LabelExpired, status.Classify())

	status, err = svc.Status(later, longLived.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LabelRevoked, status.Classify())

	// An id that was never issued reports expired with no issuer.
	status, err = svc.Status(later, 999)
	require.NoError(t, err)
	assert.False(t, status.Exists)
	assert.True(t, status.Expired)
}
