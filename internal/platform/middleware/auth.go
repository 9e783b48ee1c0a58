package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "skillpass/pkg/domain"
)

// TokenValidator validates a bearer token and returns the bound address.
type TokenValidator interface {
	ValidateToken(tokenString string) (id.Address, error)
}

type contextKeyCallerAddress struct{}

// GetCallerAddress retrieves the authenticated caller address from the context.
// Returns the zero address if the request was not authenticated.
func GetCallerAddress(ctx context.Context) id.Address {
	if addr, ok := ctx.Value(contextKeyCallerAddress{}).(id.Address); ok {
		return addr
	}
	return ""
}

// WithCallerAddress stores the caller address in the context. Exported for
// handler tests that bypass the middleware.
func WithCallerAddress(ctx context.Context, addr id.Address) context.Context {
	return context.WithValue(ctx, contextKeyCallerAddress{}, addr)
}

// RequireAuth guards mutation endpoints with a bearer token bound to a
// ledger address. The address in the token is the caller identity for
// authorization checks downstream; it is never taken from the request body.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`))
				return
			}

			addr, err := validator.ValidateToken(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
				return
			}

			ctx := WithCallerAddress(r.Context(), addr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
