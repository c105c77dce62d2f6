package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of request-scoped values set by the API layer.
type ContextKey string

const (
	// OwnerIDContextKey holds the authenticated user's ID (int64).
	OwnerIDContextKey ContextKey = "ownerID"

	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID returns a copy of ctx carrying a fresh trace ID.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace ID stored in ctx, or "" if none.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithOwnerID returns a copy of ctx carrying the authenticated user's ID.
func WithOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, OwnerIDContextKey, ownerID)
}

// OwnerIDFromContext returns the authenticated user's ID.
// The boolean is false when no positive ID is present.
func OwnerIDFromContext(ctx context.Context) (int64, bool) {
	ownerID, ok := ctx.Value(OwnerIDContextKey).(int64)
	if !ok || ownerID <= 0 {
		return 0, false
	}
	return ownerID, true
}

// generateTraceID returns 32 hex characters. A random UUID stands in when the
// system random source fails.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := rand.Read(b); err != nil || n != TraceIDLength {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b)
}
