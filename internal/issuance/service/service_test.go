package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillpass/internal/content"
	"skillpass/internal/ledger"
	ledgerstore "skillpass/internal/ledger/store"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/audit"
	"skillpass/pkg/platform/middleware/requesttime"
	"skillpass/pkg/sentinel"
)

var (
	student = id.Address("0x1111111111111111111111111111111111111111")
	issuer  = id.Address("0x2222222222222222222222222222222222222222")
	other   = id.Address("0x3333333333333333333333333333333333333333")
)

// stubRegistry approves a fixed set of addresses.
type stubRegistry struct {
	approved map[id.Address]bool
}

func (r *stubRegistry) IsApproved(_ context.Context, addr id.Address) bool {
	return r.approved[addr]
}

// failingLedger rejects every write.
type failingLedger struct {
	ledger.Store
}

func (f *failingLedger) Issue(context.Context, ledger.IssueParams) (ledger.Issued, error) {
	return ledger.Issued{}, sentinel.ErrUnavailable
}

// failingContent rejects every pin.
type failingContent struct{}

func (f *failingContent) Pin(context.Context, content.Metadata) (content.Pinned, error) {
	return content.Pinned{}, dErrors.New(dErrors.CodeStorageUnavailable, "pin failed")
}

// capturingLedger records the params of the last Issue call.
type capturingLedger struct {
	ledger.Store
	lastParams ledger.IssueParams
}

func (c *capturingLedger) Issue(ctx context.Context, params ledger.IssueParams) (ledger.Issued, error) {
	c.lastParams = params
	return c.Store.Issue(ctx, params)
}

// providerContent pins under a provider-assigned address, the way a pinning
// service does, instead of addressing the blob by its hash.
type providerContent struct{}

func (providerContent) Pin(_ context.Context, m content.Metadata) (content.Pinned, error) {
	hash, err := content.ComputeHash(m)
	if err != nil {
		return content.Pinned{}, err
	}
	return content.Pinned{Hash: hash, Address: "QmProviderAssigned001", Size: 1}, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
}

func testCtx() context.Context {
	return requesttime.WithTime(context.Background(), fixedNow())
}

func newIssueService(opts ...Option) (*Service, *audit.MemoryStore) {
	auditStore := audit.NewMemoryStore()
	registry := &stubRegistry{approved: map[id.Address]bool{issuer: true}}
	contentSvc := content.NewService(content.NewMemoryStore())
	svc := NewService(ledgerstore.NewMemoryStore(), registry, contentSvc,
		append([]Option{WithAuditor(audit.NewPublisher(auditStore))}, opts...)...)
	return svc, auditStore
}

func validRequest() IssueRequest {
	return IssueRequest{
		Student: student,
		Issuer:  issuer,
		Data:    map[string]any{"course": "Cryptography", "grade": "A"},
		Expiry:  fixedNow().Add(365 * 24 * time.Hour),
	}
}

func TestIssueSuccess(t *testing.T) {
	svc, auditStore := newIssueService()

	result, err := svc.Issue(testCtx(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, id.CredentialID(1), result.CredentialID)
	assert.False(t, result.ContentHash.IsZero())
	assert.NotEmpty(t, result.StoreAddress)
	assert.NotEmpty(t, result.TxHash)
	assert.Equal(t, validRequest().Expiry, result.Expiry)

	events := auditStore.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventCredentialIssued, events[0].Action)
	assert.Equal(t, "1", events[0].Subject)
}

func TestIssueIDsStrictlyIncreasing(t *testing.T) {
	svc, _ := newIssueService()
	ctx := testCtx()

	first, err := svc.Issue(ctx, validRequest())
	require.NoError(t, err)
	second, err := svc.Issue(ctx, validRequest())
	require.NoError(t, err)

	assert.Equal(t, first.CredentialID+1, second.CredentialID)
}

func TestIssueCommitsStoreAddress(t *testing.T) {
	capturing := &capturingLedger{Store: ledgerstore.NewMemoryStore()}
	registry := &stubRegistry{approved: map[id.Address]bool{issuer: true}}
	svc := NewService(capturing, registry, providerContent{})

	result, err := svc.Issue(testCtx(), validRequest())
	require.NoError(t, err)

	// The provider's address reaches the ledger alongside the commitment, so
	// later fetches can find the blob.
	assert.Equal(t, "QmProviderAssigned001", result.StoreAddress)
	assert.Equal(t, "QmProviderAssigned001", capturing.lastParams.StoreAddress)
	assert.Equal(t, result.ContentHash, capturing.lastParams.ContentHash)
	assert.NotEqual(t, result.ContentHash.String(), result.StoreAddress)
}

func TestIssueUnapprovedIssuer(t *testing.T) {
	svc, auditStore := newIssueService()

	req := validRequest()
	req.Issuer = other
	_, err := svc.Issue(testCtx(), req)

	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotApprovedIssuer))
	assert.Empty(t, auditStore.Events(), "failed issuance must not emit an issued event")
}

func TestIssueZeroStudent(t *testing.T) {
	svc, _ := newIssueService()

	req := validRequest()
	req.Student = id.ZeroAddress
	_, err := svc.Issue(testCtx(), req)

	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStudent))
}

func TestIssuePastExpiry(t *testing.T) {
	svc, _ := newIssueService()

	req := validRequest()
	req.Expiry = fixedNow().Add(-time.Hour)
	_, err := svc.Issue(testCtx(), req)

	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidExpiry))
}

func TestIssuePinFailureStopsBeforeLedger(t *testing.T) {
	ledgerStore := ledgerstore.NewMemoryStore()
	registry := &stubRegistry{approved: map[id.Address]bool{issuer: true}}
	svc := NewService(ledgerStore, registry, &failingContent{})

	_, err := svc.Issue(testCtx(), validRequest())
	require.True(t, dErrors.HasCode(err, dErrors.CodeStorageUnavailable))

	// Store-then-commit: nothing may have reached the ledger.
	_, err = ledgerStore.Get(context.Background(), 1)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestIssueLedgerFailureIsNotSuccess(t *testing.T) {
	registry := &stubRegistry{approved: map[id.Address]bool{issuer: true}}
	contentSvc := content.NewService(content.NewMemoryStore())
	svc := NewService(&failingLedger{}, registry, contentSvc)

	_, err := svc.Issue(testCtx(), validRequest())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLedgerUnavailable))
}

func TestRevokeSuccess(t *testing.T) {
	svc, auditStore := newIssueService()
	ctx := testCtx()

	issued, err := svc.Issue(ctx, validRequest())
	require.NoError(t, err)

	txHash, err := svc.Revoke(ctx, issuer, issued.CredentialID)
	require.NoError(t, err)
	assert.NotEmpty(t, txHash)

	events := auditStore.Events()
	require.Len(t, events, 2)
	assert.Equal(t, audit.EventCredentialRevoked, events[1].Action)
}

func TestRevokeErrorTranslation(t *testing.T) {
	svc, _ := newIssueService()
	ctx := testCtx()

	issued, err := svc.Issue(ctx, validRequest())
	require.NoError(t, err)

	tests := []struct {
		name     string
		caller   id.Address
		credID   id.CredentialID
		wantCode dErrors.Code
	}{
		{name: "unknown credential", caller: issuer, credID: 999, wantCode: dErrors.CodeNotFound},
		{name: "not the issuer", caller: other, credID: issued.CredentialID, wantCode: dErrors.CodeNotIssuer},
		{name: "missing caller", caller: "", credID: issued.CredentialID, wantCode: dErrors.CodeUnauthorized},
		{name: "zero credential id", caller: issuer, credID: 0, wantCode: dErrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Revoke(ctx, tt.caller, tt.credID)
			assert.True(t, dErrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestRevokeIdempotencyCheck(t *testing.T) {
	svc, _ := newIssueService()
	ctx := testCtx()

	issued, err := svc.Issue(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, issuer, issued.CredentialID)
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, issuer, issued.CredentialID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyRevoked))
}
