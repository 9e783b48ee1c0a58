package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
)

var (
	student = id.Address("0x1111111111111111111111111111111111111111")
	issuer  = id.Address("0x2222222222222222222222222222222222222222")
)

func TestRecordExpiredBoundaryInclusive(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r := Record{Expiry: expiry, State: StateActive}

	assert.False(t, r.Expired(expiry.Add(-time.Second)))
	assert.True(t, r.Expired(expiry), "a credential expires the instant now == expiry")
	assert.True(t, r.Expired(expiry.Add(time.Second)))
}

func TestRecordRevoked(t *testing.T) {
	assert.False(t, Record{State: StateActive}.Revoked())
	assert.True(t, Record{State: StateRevoked}.Revoked())
}

func TestIssueParamsValidate(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		params   IssueParams
		wantCode dErrors.Code
	}{
		{
			name:   "valid",
			params: IssueParams{Student: student, Issuer: issuer, Expiry: now.Add(time.Hour), Now: now},
		},
		{
			name:     "zero student",
			params:   IssueParams{Student: id.ZeroAddress, Issuer: issuer, Expiry: now.Add(time.Hour), Now: now},
			wantCode: dErrors.CodeInvalidStudent,
		},
		{
			name:     "empty student",
			params:   IssueParams{Issuer: issuer, Expiry: now.Add(time.Hour), Now: now},
			wantCode: dErrors.CodeInvalidStudent,
		},
		{
			name:     "expiry in the past",
			params:   IssueParams{Student: student, Issuer: issuer, Expiry: now.Add(-time.Hour), Now: now},
			wantCode: dErrors.CodeInvalidExpiry,
		},
		{
			name:     "expiry equals now",
			params:   IssueParams{Student: student, Issuer: issuer, Expiry: now, Now: now},
			wantCode: dErrors.CodeInvalidExpiry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, tt.wantCode))
		})
	}
}

func TestRecordDetails(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r := Record{
		ID:          7,
		Student:     student,
		Issuer:      issuer,
		ContentHash: "bafyexample",
		Expiry:      expiry,
		State:       StateRevoked,
	}

	d := r.Details()
	assert.Equal(t, uint64(7), d.CredentialID)
	assert.Equal(t, "bafyexample", d.ContentHash)
	assert.Equal(t, expiry.Unix(), d.Expiry)
	assert.Equal(t, issuer.String(), d.Issuer)
	assert.True(t, d.Revoked)
	assert.True(t, d.Exists)
}
