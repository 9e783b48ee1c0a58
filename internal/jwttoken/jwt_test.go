package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "skillpass/pkg/domain"
	"skillpass/pkg/platform/middleware/requesttime"
)

const signingKey = "test-signing-key"

var addr = id.Address("0x1111111111111111111111111111111111111111")

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewService(signingKey, "skillpass", time.Hour)

	token, err := svc.Generate(context.Background(), addr)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestGenerateRejectsZeroAddress(t *testing.T) {
	svc := NewService(signingKey, "skillpass", time.Hour)
	_, err := svc.Generate(context.Background(), id.ZeroAddress)
	assert.Error(t, err)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	svc := NewService(signingKey, "skillpass", time.Hour)
	token, err := svc.Generate(context.Background(), addr)
	require.NoError(t, err)

	other := NewService("different-key", "skillpass", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService(signingKey, "skillpass", time.Hour)

	// Mint against a clock two hours in the past.
	past := requesttime.WithTime(context.Background(), time.Now().Add(-2*time.Hour))
	token, err := svc.Generate(past, addr)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	minted := NewService(signingKey, "someone-else", time.Hour)
	token, err := minted.Generate(context.Background(), addr)
	require.NoError(t, err)

	svc := NewService(signingKey, "skillpass", time.Hour)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService(signingKey, "skillpass", time.Hour)
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ValidateToken(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
