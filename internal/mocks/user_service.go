package mocks

import (
	"context"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn   func(ctx context.Context, input service.RegisterInput) (*service.RegisterResult, error)
	UpdateUserFn func(ctx context.Context, userID int64, patch service.UserPatch) (*domain.PublicUser, error)
	GetUserFn    func(ctx context.Context, userID int64) (*domain.PublicUser, error)

	// Default return values
	Result       *service.RegisterResult
	User         *domain.PublicUser
	DefaultError error
}

// Register implements the UserService.Register method
func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*service.RegisterResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, input)
	}
	return m.Result, m.DefaultError
}

// UpdateUser implements the UserService.UpdateUser method
func (m *MockUserService) UpdateUser(
	ctx context.Context,
	userID int64,
	patch service.UserPatch,
) (*domain.PublicUser, error) {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, userID, patch)
	}
	return m.User, m.DefaultError
}

// GetUser implements the UserService.GetUser method
func (m *MockUserService) GetUser(ctx context.Context, userID int64) (*domain.PublicUser, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return m.User, m.DefaultError
}
