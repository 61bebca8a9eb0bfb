package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the API layer.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's int64 id.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the request's trace id.
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID stores a fresh trace id in ctx.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID returns the trace id of ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user id. It reports false
// when no positive id is present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
