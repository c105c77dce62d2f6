package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MinPasswordLength is the shortest accepted plaintext password.
const MinPasswordLength = 6

// RegisterInput holds the fields of a registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Theme    string // optional; defaults to domain.DefaultTheme
}

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	User      domain.PublicUser
	Token     string
	ExpiresAt time.Time
}

// UserPatch holds a partial profile update. Nil fields are left unchanged.
// NewPassword requires CurrentPassword.
type UserPatch struct {
	Email           *string
	Name            *string
	Theme           *string
	CurrentPassword *string
	NewPassword     *string
}

// UserService provides registration and profile operations.
type UserService interface {
	// Register creates a user and issues a session token for it.
	// Returns ErrDuplicateEmail if the email is already registered.
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)

	// UpdateUser applies a partial profile update and returns the updated
	// public user. No new token is issued.
	UpdateUser(ctx context.Context, userID int64, patch UserPatch) (*domain.PublicUser, error)

	// GetUser returns the public projection of a user.
	GetUser(ctx context.Context, userID int64) (*domain.PublicUser, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	tokens    auth.TokenIssuer
	db        *sql.DB
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.TokenIssuer,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		db:        db,
		logger:    logger.With("component", "user_service"),
		timeFunc:  time.Now,
	}
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(input.Password) < MinPasswordLength {
		return nil, domain.NewValidationError(
			"password",
			fmt.Sprintf("must be at least %d characters", MinPasswordLength),
			domain.ErrValidation,
		)
	}

	_, err := s.userStore.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		log.Debug("registration rejected: email already registered")
		return nil, ErrDuplicateEmail
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error("failed to check email availability", "error", err)
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	verifier, err := s.hasher.Hash(input.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(input.Email, verifier, input.Name, input.Theme, s.timeFunc())
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		// A concurrent registration for the same address lost the race on
		// the unique constraint.
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration rejected: email registered concurrently")
			return nil, ErrDuplicateEmail
		}
		log.Error("failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user.ID, user.Email)
	if err != nil {
		log.Error("failed to issue session token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)

	return &RegisterResult{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// UpdateUser implements UserService.UpdateUser.
// The read-modify-write runs in one transaction.
func (s *userServiceImpl) UpdateUser(
	ctx context.Context,
	userID int64,
	patch UserPatch,
) (*domain.PublicUser, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.NewPassword != nil && len(*patch.NewPassword) < MinPasswordLength {
		return nil, domain.NewValidationError(
			"new_password",
			fmt.Sprintf("must be at least %d characters", MinPasswordLength),
			domain.ErrValidation,
		)
	}

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to retrieve user for update: %w", err)
		}

		if patch.NewPassword != nil {
			if patch.CurrentPassword == nil || !s.hasher.Verify(*patch.CurrentPassword, user.PasswordHash) {
				log.Debug("password change rejected: current password mismatch", "user_id", userID)
				return ErrInvalidCredentials
			}
			verifier, err := s.hasher.Hash(*patch.NewPassword)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.PasswordHash = verifier
		}

		if patch.Email != nil {
			user.Email = *patch.Email
		}
		if patch.Name != nil {
			user.Name = *patch.Name
		}
		if patch.Theme != nil {
			user.Theme = *patch.Theme
		}
		user.UpdatedAt = s.timeFunc().UTC()

		if err := user.Validate(); err != nil {
			return err
		}

		if err := txStore.Update(ctx, user); err != nil {
			switch {
			case errors.Is(err, store.ErrEmailExists):
				return ErrDuplicateEmail
			case errors.Is(err, store.ErrUserNotFound):
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		if !isExpectedUserError(err) {
			log.Error("failed to update user", "error", err, "user_id", userID)
		}
		return nil, err
	}

	log.Info("user updated", "user_id", userID)

	public := updated.Public()
	return &public, nil
}

// GetUser implements UserService.GetUser.
func (s *userServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.PublicUser, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	public := user.Public()
	return &public, nil
}

func isExpectedUserError(err error) bool {
	var validationErr *domain.ValidationError
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.As(err, &validationErr) ||
		errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyHashedPassword)
}
