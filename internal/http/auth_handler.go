package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/room-tracker/internal/application"
)

type credentialVerifier interface {
	VerifyCredentials(ctx context.Context, params application.VerifyCredentialsParams) (application.Identity, error)
}

// AuthHandler exposes the login operation to the presentation layer.
type AuthHandler struct {
	service   credentialVerifier
	responder responder
	logger    *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(service credentialVerifier, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login verifies submitted credentials. Authentication failures return 401
// with the failure reason; storage faults return 500 so the UI can present a
// system error instead of blaming the credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Login", "email", req.Email)

	identity, err := h.service.VerifyCredentials(r.Context(), application.VerifyCredentialsParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		switch {
		case errors.Is(err, application.ErrNoAccount), errors.Is(err, application.ErrIncorrectPassword):
			h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
				ErrorCode: "AUTH_FAILED",
				Message:   err.Error(),
			})
		default:
			h.responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
				ErrorCode: "SYSTEM_ERROR",
				Message:   "Could not reach the reservation database. Please try again.",
			})
		}
		return
	}

	logger.With("user_id", identity.UserID, "role", identity.Role).InfoContext(r.Context(), "login succeeded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	})
}
