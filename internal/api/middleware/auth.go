package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/redact"
	"github.com/phrazzld/tasker-api/internal/service/auth"
)

// AuthMiddleware authenticates requests with a bearer session token.
type AuthMiddleware struct {
	tokens auth.TokenIssuer
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(tokens auth.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// errMalformedHeader reports an Authorization header that is not a bearer
// credential. It wraps auth.ErrInvalidToken.
var errMalformedHeader = fmt.Errorf("%w: invalid authorization format", auth.ErrInvalidToken)

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMalformedHeader
	}
	return token, nil
}

// Authenticate validates the bearer token in the Authorization header and
// stores the token's owner ID in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			respondAuthError(w, r, err)
			return
		}

		claims, err := m.tokens.Validate(r.Context(), token)
		if err != nil {
			respondAuthError(w, r, err)
			return
		}

		ctx := shared.WithOwnerID(r.Context(), claims.OwnerID)
		log := logger.FromContextOrDefault(ctx, slog.Default()).With(slog.Int64("user_id", claims.OwnerID))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
	case errors.Is(err, errMalformedHeader):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
	default:
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to validate token", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
	}
}
