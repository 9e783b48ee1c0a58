package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	contract "skillpass/contracts/ledger"
	"skillpass/internal/content"
	"skillpass/internal/platform/middleware"
	"skillpass/internal/verification/models"
	id "skillpass/pkg/domain"
	dErrors "skillpass/pkg/domain-errors"
	"skillpass/pkg/platform/httputil"
)

// Service defines the verification operations the handler needs.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Status(ctx context.Context, credID id.CredentialID) (models.Status, error)
	Details(ctx context.Context, credID id.CredentialID) (contract.CredentialDetails, error)
	FetchMetadata(ctx context.Context, credID id.CredentialID) (content.Metadata, error)
	CredentialsOf(ctx context.Context, student id.Address) ([]id.CredentialID, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification routes. All routes here are public reads.
func (h *Handler) Register(r chi.Router) {
	r.Get("/verify/{credentialId}", h.HandleVerify)
	r.Get("/credentials/{credentialId}", h.HandleGetCredential)
	r.Get("/students/{address}/credentials", h.HandleStudentCredentials)
}

// VerifyResponse reports the point-in-time status of a credential.
type VerifyResponse struct {
	CredentialID string `json:"credentialId"`
	Status       string `json:"status"`
	Valid        bool   `json:"valid"`
	Expired      bool   `json:"expired"`
	Revoked      bool   `json:"revoked"`
	Issuer       string `json:"issuer,omitempty"`
}

// HandleVerify returns the verification status for a credential. A credential
// that never existed still gets a 200 with expired=true; verification is a
// query, not an existence assertion.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	credID, err := id.ParseCredentialID(chi.URLParam(r, "credentialId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid credential id"))
		return
	}

	status, err := h.service.Status(ctx, credID)
	if err != nil {
		h.logger.ErrorContext(ctx, "verify credential failed",
			"error", err,
			"request_id", requestID,
			"credential_id", credID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{
		CredentialID: credID.String(),
		Status:       string(status.Classify()),
		Valid:        status.Valid,
		Expired:      status.Expired,
		Revoked:      status.Revoked,
		Issuer:       status.Issuer.String(),
	})
}

// CredentialResponse is the capability-surface view of a record, optionally
// carrying the integrity-verified metadata.
type CredentialResponse struct {
	CredentialID    string            `json:"credentialId"`
	Exists          bool              `json:"exists"`
	ContentHash     string            `json:"contentHash,omitempty"`
	ExpiryTimestamp int64             `json:"expiryTimestamp,omitempty"`
	Issuer          string            `json:"issuer,omitempty"`
	Revoked         bool              `json:"revoked"`
	Metadata        *content.Metadata `json:"metadata,omitempty"`
}

// HandleGetCredential returns raw credential details. With
// ?includeMetadata=true the off-ledger document is fetched and verified
// against the committed hash before being included; an unverifiable document
// fails the whole request rather than returning unverified content.
func (h *Handler) HandleGetCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	credID, err := id.ParseCredentialID(chi.URLParam(r, "credentialId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid credential id"))
		return
	}

	details, err := h.service.Details(ctx, credID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get credential failed",
			"error", err,
			"request_id", requestID,
			"credential_id", credID,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := CredentialResponse{
		CredentialID: credID.String(),
		Exists:       details.Exists,
		Revoked:      details.Revoked,
	}
	if details.Exists {
		resp.ContentHash = details.ContentHash
		resp.ExpiryTimestamp = details.Expiry
		resp.Issuer = details.Issuer
	}

	if details.Exists && r.URL.Query().Get("includeMetadata") == "true" {
		metadata, err := h.service.FetchMetadata(ctx, credID)
		if err != nil {
			h.logger.ErrorContext(ctx, "fetch credential metadata failed",
				"error", err,
				"request_id", requestID,
				"credential_id", credID,
			)
			httputil.WriteError(w, err)
			return
		}
		resp.Metadata = &metadata
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// StudentCredentialsResponse lists a student's credential IDs in issuance order.
type StudentCredentialsResponse struct {
	Address       string   `json:"address"`
	CredentialIDs []string `json:"credentialIds"`
}

// HandleStudentCredentials lists all credentials ever issued to a student,
// revoked ones included.
func (h *Handler) HandleStudentCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	student, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid address"))
		return
	}

	ids, err := h.service.CredentialsOf(ctx, student)
	if err != nil {
		h.logger.ErrorContext(ctx, "list student credentials failed",
			"error", err,
			"request_id", requestID,
			"student", student,
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]string, len(ids))
	for i, credID := range ids {
		out[i] = credID.String()
	}

	httputil.WriteJSON(w, http.StatusOK, StudentCredentialsResponse{
		Address:       student.String(),
		CredentialIDs: out,
	})
}
