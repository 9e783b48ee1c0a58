package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_failed"
	CodeInternal     Code = "internal_error"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeTimeout      Code = "timeout"

	// Authorization failures. Terminal for the request as submitted;
	// retrying with the same caller cannot succeed.
	CodeNotOwner          Code = "not_owner"           // Caller is not the registry owner
	CodeNotApprovedIssuer Code = "not_approved_issuer" // Caller may not mint credentials
	CodeNotIssuer         Code = "not_issuer"          // Caller did not issue this credential

	// State failures. The ledger rejected the transition; no state changed.
	CodeAlreadyRevoked Code = "already_revoked"
	CodeInvalidStudent Code = "invalid_student"
	CodeInvalidExpiry  Code = "invalid_expiry"

	// Transport failures. Retrying may succeed; callers must be able to
	// distinguish these from the terminal families above.
	CodeStorageUnavailable Code = "storage_unavailable" // Content store transport or quota failure
	CodeLedgerUnavailable  Code = "ledger_unavailable"  // Ledger unreachable or write outcome unknown

	// Integrity failure: fetched metadata does not hash to the committed
	// digest. The credential record itself may still be valid; the blob is not
	// trustworthy.
	CodeIntegrityViolation Code = "integrity_violation"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsRetryable reports whether the error names a transport failure where a
// retry may succeed, as opposed to an authorization or state rejection that
// fails the same way every time.
func IsRetryable(err error) bool {
	return HasCode(err, CodeStorageUnavailable) || HasCode(err, CodeLedgerUnavailable) || HasCode(err, CodeTimeout)
}
