// Package jwttoken issues and validates bearer tokens that bind a caller to
// an on-ledger address. The token proves control of the address to this
// service only; it is an API credential, not a chain signature.
package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/middleware/requesttime"
)

// IssuerTokenClaims carries the caller's ledger address as the JWT subject.
type IssuerTokenClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

// NewService creates a token service with the given HMAC signing key.
func NewService(signingKey string, issuer string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// Generate mints a signed bearer token for the given address.
func (s *Service) Generate(ctx context.Context, addr id.Address) (string, error) {
	if addr.IsZero() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	now := requesttime.Now(ctx)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, IssuerTokenClaims{
		Address: addr.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   addr.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        hex.EncodeToString(b),
		},
	})

	return token.SignedString(s.signingKey)
}

// ValidateToken verifies the signature and standard claims, returning the
// bound address. The algorithm is pinned to HS256; tokens signed any other
// way are rejected before key lookup.
func (s *Service) ValidateToken(tokenString string) (id.Address, error) {
	if tokenString == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "empty token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &IssuerTokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*IssuerTokenClaims)
	if !ok {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}

	addr, err := id.ParseAddress(claims.Address)
	if err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token does not carry a valid address")
	}
	return addr, nil
}
