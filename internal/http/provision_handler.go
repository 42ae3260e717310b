package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/room-tracker/internal/application"
)

type provisionService interface {
	ProvisionAccounts(ctx context.Context, seeds []application.AccountSeed) (application.ProvisionReport, error)
}

// ProvisionHandler exposes the one-shot account seeding operation.
// Idempotency lives in the service's upsert, so repeating a request is safe.
type ProvisionHandler struct {
	service   provisionService
	responder responder
	logger    *slog.Logger
}

// NewProvisionHandler constructs a ProvisionHandler.
func NewProvisionHandler(service provisionService, logger *slog.Logger) *ProvisionHandler {
	base := defaultLogger(logger)
	return &ProvisionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProvisionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProvisionHandler", operation, attrs...)
}

// Provision upserts the submitted predefined accounts. Administrator only.
func (h *ProvisionHandler) Provision(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if !principal.IsAdmin {
		h.responder.handleServiceError(r.Context(), w, application.ErrUnauthorized)
		return
	}

	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Provision", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode provision request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Provision", "principal_id", principal.UserID, "seed_count", len(req.Accounts))

	report, err := h.service.ProvisionAccounts(r.Context(), req.toSeeds())
	if err != nil {
		logger.ErrorContext(r.Context(), "provisioning failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("created", report.Created, "updated", report.Updated).InfoContext(r.Context(), "accounts provisioned")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, provisionResponse{Created: report.Created, Updated: report.Updated})
}
