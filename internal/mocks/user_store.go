package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Without function fields it behaves as an in-memory store keyed by exact
// email, assigning sequential IDs and rejecting duplicate emails like the
// database's unique constraint does. It is safe for concurrent use.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error

	// Data for default implementation
	mu              sync.Mutex
	Users           map[string]*domain.User
	LastUserID      int64
	CreateError     error
	GetByEmailError error
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	m.LastUserID++
	user.ID = m.LastUserID
	stored := *user
	m.Users[user.Email] = &stored
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for email, existing := range m.Users {
		if existing.ID != user.ID {
			continue
		}
		if email != user.Email {
			if _, taken := m.Users[user.Email]; taken {
				return store.ErrEmailExists
			}
			delete(m.Users, email)
		}
		stored := *user
		m.Users[user.Email] = &stored
		return nil
	}

	return store.ErrUserNotFound
}

// WithTx returns the same mock; the in-memory store has no transactions.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
