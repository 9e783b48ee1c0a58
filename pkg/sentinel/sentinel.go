package sentinel

import "errors"

// Sentinel dependency errors. Dependencies should return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyRevoked = errors.New("already revoked")
	ErrNotIssuer      = errors.New("not issuer")
	ErrUnavailable    = errors.New("unavailable")
)
