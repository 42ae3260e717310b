package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// ProvisioningStore captures the persistence operations needed to seed
// predefined accounts.
type ProvisioningStore interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	UpdateUser(ctx context.Context, user User, passwordHash string) (User, error)
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// ProvisionService seeds predefined accounts. Runs are idempotent: a seed
// whose email already exists updates that row in place rather than inserting
// a duplicate, so re-running a deployment script is safe.
type ProvisionService struct {
	users        ProvisioningStore
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewProvisionService constructs a provision service with the provided
// dependencies.
func NewProvisionService(users ProvisioningStore, hash PasswordHasher, idGenerator func() string, now func() time.Time) *ProvisionService {
	return NewProvisionServiceWithLogger(users, hash, idGenerator, now, nil)
}

// NewProvisionServiceWithLogger constructs a provision service with a
// specified logger.
func NewProvisionServiceWithLogger(users ProvisioningStore, hash PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ProvisionService {
	if hash == nil {
		hash = HashPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ProvisionService{
		users:        users,
		hashPassword: hash,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ProvisionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProvisionService", operation, attrs...)
}

// ProvisionAccounts upserts every seed by email, hashing the plaintext
// before it reaches storage. The whole batch is validated before any row is
// written.
func (s *ProvisionService) ProvisionAccounts(ctx context.Context, seeds []AccountSeed) (report ProvisionReport, err error) {
	if s == nil {
		err = fmt.Errorf("ProvisionService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("provisioning store not configured")
		return
	}

	logger := s.loggerWith(ctx, "ProvisionAccounts", "seed_count", len(seeds))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "provisioning failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("created", report.Created, "updated", report.Updated).InfoContext(ctx, "provisioning completed")
	}()

	if vErr := validateSeeds(seeds); vErr.HasErrors() {
		err = vErr
		return
	}

	for _, seed := range seeds {
		email := strings.TrimSpace(seed.Email)

		var hash string
		hash, err = s.hashPassword(seed.Password)
		if err != nil {
			err = fmt.Errorf("failed to hash password for %s: %w", email, err)
			return
		}

		existing, lookupErr := s.users.GetUserByEmail(ctx, email)
		switch {
		case lookupErr == nil:
			existing.Username = strings.TrimSpace(seed.Username)
			existing.Role = strings.TrimSpace(seed.Role)
			existing.UpdatedAt = s.now()
			if _, err = s.users.UpdateUser(ctx, existing, hash); err != nil {
				return
			}
			report.Updated++
		case errors.Is(lookupErr, ErrNotFound):
			now := s.now()
			user := User{
				ID:        s.idGenerator(),
				Username:  strings.TrimSpace(seed.Username),
				Email:     email,
				Role:      strings.TrimSpace(seed.Role),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err = s.users.CreateUser(ctx, user, hash); err != nil {
				return
			}
			report.Created++
		default:
			err = lookupErr
			return
		}
	}

	return report, nil
}

func validateSeeds(seeds []AccountSeed) *ValidationError {
	vErr := &ValidationError{}

	for i, seed := range seeds {
		prefix := fmt.Sprintf("seeds[%d].", i)
		if strings.TrimSpace(seed.Username) == "" {
			vErr.add(prefix+"username", "must not be empty")
		}
		email := strings.TrimSpace(seed.Email)
		if email == "" {
			vErr.add(prefix+"email", "must not be empty")
		} else if _, err := mail.ParseAddress(email); err != nil {
			vErr.add(prefix+"email", "must be a valid email address")
		}
		if seed.Password == "" {
			vErr.add(prefix+"password", "must not be empty")
		}
		if strings.TrimSpace(seed.Role) == "" {
			vErr.add(prefix+"role", "must not be empty")
		}
	}

	return vErr
}
