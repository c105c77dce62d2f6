package service_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/mocks"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, sqlMock
}

func strPtr(s string) *string { return &s }

func newTokenIssuer() *mocks.MockTokenIssuer {
	return &mocks.MockTokenIssuer{
		IssueFn: func(_ context.Context, ownerID int64, email string) (string, time.Time, error) {
			return "token-for-" + email, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), nil
		},
	}
}

func TestUserService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), nil, testLogger())

		result, err := svc.Register(context.Background(), service.RegisterInput{
			Email:    "ann@example.com",
			Password: "secret1",
			Name:     "Ann",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), result.User.ID)
		assert.Equal(t, "ann@example.com", result.User.Email)
		assert.Equal(t, domain.DefaultTheme, result.User.Theme)
		assert.Equal(t, result.User.CreatedAt, result.User.UpdatedAt)
		assert.Equal(t, "token-for-ann@example.com", result.Token)
		assert.False(t, result.ExpiresAt.IsZero())

		stored, err := users.GetByEmail(context.Background(), "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, "hashed:secret1", stored.PasswordHash)
	})

	t.Run("duplicate_email_second_call_only", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), nil, testLogger())
		input := service.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"}

		_, err := svc.Register(context.Background(), input)
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, service.ErrDuplicateEmail)
		assert.Len(t, users.Users, 1)
	})

	t.Run("email_match_is_case_sensitive", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), nil, testLogger())

		_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
		require.NoError(t, err)
		_, err = svc.Register(context.Background(), service.RegisterInput{Email: "A@X.COM", Password: "secret1", Name: "A"})
		assert.NoError(t, err)
	})

	t.Run("race_loser_gets_duplicate", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		users.GetByEmailFn = func(context.Context, string) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		}
		users.CreateFn = func(context.Context, *domain.User) error {
			return store.ErrEmailExists
		}
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), nil, testLogger())

		_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
		assert.ErrorIs(t, err, service.ErrDuplicateEmail)
	})

	t.Run("concurrent_registrations_create_one_user", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), nil, testLogger())

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Register(context.Background(),
					service.RegisterInput{Email: "race@x.com", Password: "secret1", Name: "R"})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, service.ErrDuplicateEmail)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("short_password", func(t *testing.T) {
		hasher := &mocks.MockPasswordHasher{}
		svc := service.NewUserService(mocks.NewMockUserStore(), hasher, newTokenIssuer(), nil, testLogger())

		_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@x.com", Password: "12345", Name: "A"})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "password", validationErr.Field)
		assert.Zero(t, hasher.HashCallCount)
	})

	t.Run("store_failure_is_wrapped", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		storeErr := store.NewStoreError("user", "get", "database error", errors.New("connection refused"))
		users.GetByEmailError = storeErr
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), nil, testLogger())

		_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, service.ErrDuplicateEmail)
	})

	t.Run("token_failure", func(t *testing.T) {
		tokens := &mocks.MockTokenIssuer{Err: errors.New("signing failed")}
		svc := service.NewUserService(mocks.NewMockUserStore(), &mocks.MockPasswordHasher{}, tokens, nil, testLogger())

		_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
		assert.Error(t, err)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := func() *domain.User {
		return &domain.User{
			ID:           5,
			Email:        "ann@example.com",
			PasswordHash: "hashed:oldpass",
			Name:         "Ann",
			Theme:        "blue",
			CreatedAt:    created,
			UpdatedAt:    created,
		}
	}

	t.Run("updates_present_fields_only", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		users := new(mocks.TestifyMockUserStore)
		users.On("GetByID", mock.Anything, int64(5)).Return(existing(), nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Annie" &&
				u.Email == "ann@example.com" &&
				u.Theme == "blue" &&
				u.PasswordHash == "hashed:oldpass" &&
				u.UpdatedAt.After(created)
		})).Return(nil)

		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), db, testLogger())
		user, err := svc.UpdateUser(context.Background(), 5, service.UserPatch{Name: strPtr("Annie")})
		require.NoError(t, err)

		assert.Equal(t, "Annie", user.Name)
		assert.Equal(t, created, user.CreatedAt)
		users.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("password_change_with_correct_current", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		users := new(mocks.TestifyMockUserStore)
		users.On("GetByID", mock.Anything, int64(5)).Return(existing(), nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.PasswordHash == "hashed:newpass1"
		})).Return(nil)

		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), db, testLogger())
		_, err := svc.UpdateUser(context.Background(), 5, service.UserPatch{
			CurrentPassword: strPtr("oldpass"),
			NewPassword:     strPtr("newpass1"),
		})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	tests := []struct {
		name  string
		patch service.UserPatch
	}{
		{"wrong_current_password", service.UserPatch{CurrentPassword: strPtr("guess"), NewPassword: strPtr("newpass1")}},
		{"missing_current_password", service.UserPatch{NewPassword: strPtr("newpass1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, sqlMock := newTxDB(t)
			sqlMock.ExpectBegin()
			sqlMock.ExpectRollback()

			users := new(mocks.TestifyMockUserStore)
			users.On("GetByID", mock.Anything, int64(5)).Return(existing(), nil)

			svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), db, testLogger())
			_, err := svc.UpdateUser(context.Background(), 5, tt.patch)

			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
			users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}

	t.Run("email_collision", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		users := new(mocks.TestifyMockUserStore)
		users.On("GetByID", mock.Anything, int64(5)).Return(existing(), nil)
		users.On("Update", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), db, testLogger())
		_, err := svc.UpdateUser(context.Background(), 5, service.UserPatch{Email: strPtr("taken@example.com")})
		assert.ErrorIs(t, err, service.ErrDuplicateEmail)
	})

	t.Run("missing_user", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		users := new(mocks.TestifyMockUserStore)
		users.On("GetByID", mock.Anything, int64(404)).Return(nil, store.ErrUserNotFound)

		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), db, testLogger())
		_, err := svc.UpdateUser(context.Background(), 404, service.UserPatch{Name: strPtr("X")})
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("short_new_password_rejected_before_transaction", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		users := new(mocks.TestifyMockUserStore)

		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), db, testLogger())
		_, err := svc.UpdateUser(context.Background(), 5, service.UserPatch{
			CurrentPassword: strPtr("oldpass"),
			NewPassword:     strPtr("123"),
		})
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestUserService_GetUser(t *testing.T) {
	users := new(mocks.TestifyMockUserStore)
	users.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.User{ID: 5, Email: "ann@example.com", PasswordHash: "secret-hash", Name: "Ann"}, nil)
	users.On("GetByID", mock.Anything, int64(6)).Return(nil, store.ErrUserNotFound)

	svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, newTokenIssuer(), nil, testLogger())

	user, err := svc.GetUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = svc.GetUser(context.Background(), 6)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
