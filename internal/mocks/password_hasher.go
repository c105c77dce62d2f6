package mocks

import (
	"strings"
	"sync"
)

// MockPasswordHasher implements auth.PasswordHasher for testing.
// By default Hash returns "hashed:<secret>" and Verify checks that encoding.
// Call counters are safe for concurrent use.
type MockPasswordHasher struct {
	HashFn   func(secret string) (string, error)
	VerifyFn func(secret, verifier string) bool

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount int
	// HashCallCount tracks how many times Hash was called
	HashCallCount int

	mu sync.Mutex
}

const mockHashPrefix = "hashed:"

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(secret string) (string, error) {
	m.mu.Lock()
	m.HashCallCount++
	m.mu.Unlock()
	if m.HashFn != nil {
		return m.HashFn(secret)
	}
	return mockHashPrefix + secret, nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(secret, verifier string) bool {
	m.mu.Lock()
	m.VerifyCallCount++
	m.mu.Unlock()
	if m.VerifyFn != nil {
		return m.VerifyFn(secret, verifier)
	}
	return strings.HasPrefix(verifier, mockHashPrefix) && verifier[len(mockHashPrefix):] == secret
}
