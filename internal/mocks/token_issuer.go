package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/tasker-api/internal/service/auth"
)

// MockTokenIssuer implements auth.TokenIssuer for testing
type MockTokenIssuer struct {
	// IssueFn allows test cases to mock the Issue behavior
	IssueFn func(ctx context.Context, ownerID int64, email string) (string, time.Time, error)

	// DecodeFn allows test cases to mock the Decode behavior
	DecodeFn func(ctx context.Context, token string) (*auth.Claims, bool)

	// ValidateFn allows test cases to mock the Validate behavior
	ValidateFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	ExpiresAt   time.Time
	Err         error
	Claims      *auth.Claims
	ValidateErr error
}

// Issue implements the auth.TokenIssuer interface
func (m *MockTokenIssuer) Issue(ctx context.Context, ownerID int64, email string) (string, time.Time, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, ownerID, email)
	}
	return m.Token, m.ExpiresAt, m.Err
}

// Decode implements the auth.TokenIssuer interface
func (m *MockTokenIssuer) Decode(ctx context.Context, token string) (*auth.Claims, bool) {
	if m.DecodeFn != nil {
		return m.DecodeFn(ctx, token)
	}
	return m.Claims, m.Claims != nil
}

// Validate implements the auth.TokenIssuer interface
func (m *MockTokenIssuer) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, token)
	}
	return m.Claims, m.ValidateErr
}
