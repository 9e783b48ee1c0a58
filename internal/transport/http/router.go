// Package httptransport wires the public HTTP surface. Handlers delegate to
// domain services without embedding business logic so transport concerns
// remain isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	issuancehandler "skillpass/internal/issuance/handler"
	issuershandler "skillpass/internal/issuers/handler"
	"skillpass/internal/platform/health"
	"skillpass/internal/platform/middleware"
	verificationhandler "skillpass/internal/verification/handler"
	adminmw "skillpass/pkg/platform/middleware/admin"
	"skillpass/pkg/platform/middleware/requesttime"
)

// Deps carries the feature handlers and cross-cutting pieces the router mounts.
type Deps struct {
	Issuance     *issuancehandler.Handler
	Verification *verificationhandler.Handler
	Issuers      *issuershandler.Handler
	Health       *health.Handler

	TokenValidator middleware.TokenValidator
	AdminToken     string
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(deps Deps, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(requesttime.Middleware)

	r.Route("/api", func(api chi.Router) {
		// Public reads
		deps.Verification.Register(api)
		deps.Issuers.Register(api)

		// Mutations require a bearer token bound to a ledger address
		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuth(deps.TokenValidator, logger))
			deps.Issuance.Register(authed)
		})

		// Owner-only issuer set management
		api.Group(func(admin chi.Router) {
			admin.Use(adminmw.RequireAdminToken(deps.AdminToken, logger))
			deps.Issuers.RegisterAdmin(admin)
		})
	})

	deps.Health.Register(r)
	r.Get("/healthz", deps.Health.HandleLiveness)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
