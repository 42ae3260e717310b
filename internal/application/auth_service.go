package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// CredentialStore exposes the user lookup required by the auth service.
type CredentialStore interface {
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService verifies submitted credentials against the credential store.
// It is read-only: no lockout counters, no session issuance. The desktop
// client holds the returned identity in memory for the life of the window.
type AuthService struct {
	credentials    CredentialStore
	verifyPassword PasswordVerifier
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials CredentialStore, verify PasswordVerifier) *AuthService {
	return NewAuthServiceWithLogger(credentials, verify, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, verify PasswordVerifier, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	return &AuthService{
		credentials:    credentials,
		verifyPassword: verify,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// VerifyCredentials checks an email/password pair and returns the matching
// identity. The three outcomes are distinct: ErrNoAccount for an unknown
// email, ErrIncorrectPassword for a hash mismatch, and any other error for a
// storage fault that callers must present as a system error rather than bad
// credentials.
func (s *AuthService) VerifyCredentials(ctx context.Context, params VerifyCredentialsParams) (identity Identity, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	email := strings.TrimSpace(params.Email)

	logger := s.loggerWith(ctx, "VerifyCredentials", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "credential check failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", identity.UserID, "role", identity.Role).InfoContext(ctx, "credential check succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrNoAccount
		return
	}

	var creds UserCredentials
	creds, err = s.credentials.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrNoAccount
		}
		return
	}

	if err = s.verifyPassword(creds.PasswordHash, params.Password); err != nil {
		err = ErrIncorrectPassword
		return
	}

	identity = Identity{
		UserID:   creds.User.ID,
		Username: creds.User.Username,
		Role:     creds.User.Role,
	}
	return
}
