package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skillpass/internal/issuers/metrics"
	"skillpass/internal/platform/middleware"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/httputil"
)

// Registry defines the issuer registry operations the handler needs.
type Registry interface {
	SetApprovedIssuer(ctx context.Context, caller, issuer id.Address, approved bool) error
	IsApproved(ctx context.Context, addr id.Address) bool
	Owner() id.Address
}

type Handler struct {
	registry Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(registry Registry, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{registry: registry, logger: logger, metrics: m}
}

// Register mounts public routes. The approve route is mounted separately
// behind the admin middleware; see RegisterAdmin.
func (h *Handler) Register(r chi.Router) {
	r.Get("/issuer/check/{address}", h.HandleCheckIssuer)
}

// RegisterAdmin mounts owner-only routes. The caller must already be behind
// the admin token middleware; the admin token stands in for owner control.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/issuer/approve", h.HandleSetIssuer)
}

// CheckIssuerResponse reports approval for a single address.
type CheckIssuerResponse struct {
	Address    string `json:"address"`
	IsApproved bool   `json:"isApproved"`
}

// HandleCheckIssuer reports whether an address may mint credentials.
// Unknown addresses report false; the endpoint never 404s.
func (h *Handler) HandleCheckIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid address"))
		return
	}

	approved := h.registry.IsApproved(ctx, addr)
	if h.metrics != nil {
		result := "denied"
		if approved {
			result = "approved"
		}
		h.metrics.ApprovalChecksTotal.WithLabelValues(result).Inc()
	}

	httputil.WriteJSON(w, http.StatusOK, CheckIssuerResponse{
		Address:    addr.String(),
		IsApproved: approved,
	})
}

// SetIssuerResponse confirms an issuer set mutation.
type SetIssuerResponse struct {
	Issuer     string `json:"issuer"`
	IsApproved bool   `json:"isApproved"`
}

// HandleSetIssuer grants or removes minting rights. The admin token proves
// owner control, so the registry owner is the acting identity.
func (h *Handler) HandleSetIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SetIssuerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issuer, err := id.ParseAddress(req.Issuer)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid issuer address"))
		return
	}

	if err := h.registry.SetApprovedIssuer(ctx, h.registry.Owner(), issuer, req.Approved); err != nil {
		h.logger.ErrorContext(ctx, "set approved issuer failed",
			"error", err,
			"request_id", requestID,
			"issuer", issuer,
		)
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		action := "approved"
		if !req.Approved {
			action = "removed"
		}
		h.metrics.SetOperationsTotal.WithLabelValues(action).Inc()
	}

	httputil.WriteJSON(w, http.StatusOK, SetIssuerResponse{
		Issuer:     issuer.String(),
		IsApproved: req.Approved,
	})
}
