package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/config"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
)

// DefaultTokenLifetime is the session lifetime when config leaves it unset.
const DefaultTokenLifetime = 24 * time.Hour

// MinSecretLength is the shortest accepted signing secret, in bytes.
const MinSecretLength = 32

// TokenIssuer issues and reads session tokens.
type TokenIssuer interface {
	// Issue creates a signed token for the owner. It returns the token and
	// its expiry instant.
	Issue(ctx context.Context, ownerID int64, email string) (string, time.Time, error)

	// Decode returns the claims of a well-formed, correctly signed token
	// without checking expiry. It returns nil, false on any malformed input.
	Decode(ctx context.Context, token string) (*Claims, bool)

	// Validate decodes the token and enforces expiry.
	// Returns ErrInvalidToken or ErrExpiredToken.
	Validate(ctx context.Context, token string) (*Claims, error)
}

// Claims is the decoded content of a session token.
type Claims struct {
	OwnerID   int64
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
	ID        string
}

// tokenClaims is the wire shape of the token payload. ownerId, email and
// expiresAt (epoch milliseconds) form the session claim; the registered
// claims carry the same expiry for standard validation.
type tokenClaims struct {
	OwnerID         int64  `json:"ownerId"`
	Email           string `json:"email"`
	ExpiresAtMillis int64  `json:"expiresAt"`
	jwt.RegisteredClaims
}

// hmacTokenIssuer is an implementation of TokenIssuer using HMAC-SHA256 signing.
type hmacTokenIssuer struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration    // Leeway applied when checking expiry
}

// Ensure hmacTokenIssuer implements TokenIssuer interface
var _ TokenIssuer = (*hmacTokenIssuer)(nil)

// NewTokenIssuer creates a new token issuer using HMAC-SHA256 signing.
func NewTokenIssuer(cfg config.AuthConfig) (TokenIssuer, error) {
	return newHMACTokenIssuer(cfg.TokenSecret, time.Duration(cfg.TokenLifetimeMinutes)*time.Minute, time.Now)
}

func newHMACTokenIssuer(secret string, lifetime time.Duration, timeFunc func() time.Time) (*hmacTokenIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d characters", MinSecretLength)
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	if timeFunc == nil {
		timeFunc = time.Now
	}

	return &hmacTokenIssuer{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     2 * time.Minute,
	}, nil
}

// Issue implements TokenIssuer.Issue.
func (s *hmacTokenIssuer) Issue(ctx context.Context, ownerID int64, email string) (string, time.Time, error) {
	log := logger.FromContext(ctx)

	now := s.timeFunc()
	// expiresAt keeps millisecond precision; exp is encoded in whole seconds.
	expiresAt := now.Add(s.tokenLifetime).Truncate(time.Millisecond)

	claims := tokenClaims{
		OwnerID:         ownerID,
		Email:           email,
		ExpiresAtMillis: expiresAt.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(ownerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"owner_id", ownerID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", time.Time{}, fmt.Errorf("failed to sign session token with HMAC-SHA256: %w", err)
	}

	return signed, expiresAt.UTC(), nil
}

// Decode implements TokenIssuer.Decode.
func (s *hmacTokenIssuer) Decode(ctx context.Context, tokenString string) (*Claims, bool) {
	claims, err := s.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		logger.FromContext(ctx).Debug("session token decode failed", "error", err)
		return nil, false
	}
	return claims, true
}

// Validate implements TokenIssuer.Validate.
func (s *hmacTokenIssuer) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	now := s.timeFunc()
	claims, err := s.parse(
		tokenString,
		jwt.WithLeeway(s.clockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("session token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		}
		log.Debug("session token validation failed",
			"error", err,
			"error_type", fmt.Sprintf("%T", err))
		return nil, ErrInvalidToken
	}

	log.Debug("session token validated successfully",
		"owner_id", claims.OwnerID,
		"token_id", claims.ID,
		"expiry", claims.ExpiresAt)

	return claims, nil
}

func (s *hmacTokenIssuer) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var tc tokenClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&tc,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if tc.OwnerID <= 0 || tc.ExpiresAtMillis == 0 {
		return nil, fmt.Errorf("%w: missing session claims", ErrInvalidToken)
	}

	claims := &Claims{
		OwnerID:   tc.OwnerID,
		Email:     tc.Email,
		ExpiresAt: time.UnixMilli(tc.ExpiresAtMillis).UTC(),
		ID:        tc.ID,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.UTC()
	}
	return claims, nil
}
