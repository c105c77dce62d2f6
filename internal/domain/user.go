package domain

import (
	"errors"
	"strings"
	"time"
)

// DefaultTheme is the UI theme assigned to users who do not choose one.
const DefaultTheme = "blue"

// Common validation errors
var (
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the task manager.
// It contains profile information and the stored password verifier.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose the verifier in JSON
	Name         string    `json:"name"`
	Theme        string    `json:"ui_color_theme"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the outward view of a User with the password verifier removed.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Theme     string    `json:"ui_color_theme"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a User that has not been persisted yet. The ID is left at
// zero for the store to assign. An empty theme falls back to DefaultTheme.
//
// The caller is responsible for hashing the password; passwordHash must
// already be a verifier.
func NewUser(email, passwordHash, name, theme string, now time.Time) (*User, error) {
	if theme == "" {
		theme = DefaultTheme
	}

	user := &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Theme:        theme,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Email format is checked by the request layer; here we only guard the
// invariants the store relies on.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}

	if u.PasswordHash == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// Public returns the public projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Theme:     u.Theme,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
