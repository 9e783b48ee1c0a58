package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"skillpass/internal/issuance/service"
	"skillpass/internal/platform/middleware"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/httputil"
	"skillpass/pkg/platform/middleware/requesttime"
)

// Service defines the issuance operations the handler needs.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Issue(ctx context.Context, req service.IssueRequest) (*service.IssueResult, error)
	Revoke(ctx context.Context, caller id.Address, credID id.CredentialID) (string, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts issuance routes. All routes here mutate ledger state and
// must be mounted behind the bearer auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/issue", h.HandleIssue)
	r.Post("/verify/revoke", h.HandleRevoke)
}

// IssueResponse reports a freshly minted credential.
type IssueResponse struct {
	CredentialID    string `json:"credentialId"`
	IPFSHash        string `json:"ipfsHash"`
	TransactionHash string `json:"transactionHash"`
	ExpiryTimestamp int64  `json:"expiryTimestamp"`
}

// HandleIssue mints a credential for a student. The issuer identity comes
// from the bearer token, never from the request body; expiryDays converts to
// an absolute timestamp against the request-scoped clock.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	issuer := middleware.GetCallerAddress(ctx)
	if issuer.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "caller identity required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	student, err := id.ParseAddress(req.StudentAddress)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidStudent, "invalid student address"))
		return
	}

	expiry := requesttime.Now(ctx).Add(time.Duration(req.ExpiryDays) * 24 * time.Hour)

	result, err := h.service.Issue(ctx, service.IssueRequest{
		Student: student,
		Issuer:  issuer,
		Data:    req.CredentialData,
		Expiry:  expiry,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "issue credential failed",
			"error", err,
			"request_id", requestID,
			"issuer", issuer,
			"student", student,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, IssueResponse{
		CredentialID:    result.CredentialID.String(),
		IPFSHash:        result.StoreAddress,
		TransactionHash: result.TxHash,
		ExpiryTimestamp: result.Expiry.Unix(),
	})
}

// RevokeResponse confirms a revocation.
type RevokeResponse struct {
	CredentialID    string `json:"credentialId"`
	TransactionHash string `json:"transactionHash"`
}

// HandleRevoke revokes a credential. Only the issuing address may revoke;
// a second revoke of the same credential returns 409.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	caller := middleware.GetCallerAddress(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "caller identity required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RevokeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	credID, err := id.ParseCredentialID(req.CredentialID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid credential id"))
		return
	}

	txHash, err := h.service.Revoke(ctx, caller, credID)
	if err != nil {
		h.logger.ErrorContext(ctx, "revoke credential failed",
			"error", err,
			"request_id", requestID,
			"caller", caller,
			"credential_id", credID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RevokeResponse{
		CredentialID:    credID.String(),
		TransactionHash: txHash,
	})
}
