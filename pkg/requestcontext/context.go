// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// This package defines context keys and getter/setter functions for values that are
// typically set by middleware but consumed by services. By keeping this package free
// of net/http dependencies, services can import only what they need without pulling
// in HTTP-related code.
//
// Usage in services (read values):
//
//	userID := requestcontext.UserID(ctx)
//	role := requestcontext.Role(ctx)
//	today := requestcontext.Today(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithLocation(ctx, loc)
package requestcontext

import (
	"context"
	"time"

	id "moodlog/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	userIDKey      struct{}
	roleKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	locationKey    struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyUserID      = userIDKey{}
	ContextKeyRole        = roleKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyLocation    = locationKey{}
)

// -----------------------------------------------------------------------------
// Identity
// -----------------------------------------------------------------------------

// UserID retrieves the authenticated user ID from the context.
// Returns the zero value (nil UUID) if not set.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(ContextKeyUserID).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID injects a user ID into the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// Role retrieves the authenticated caller's role. Empty if not set.
func Role(ctx context.Context) id.Role {
	if role, ok := ctx.Value(ContextKeyRole).(id.Role); ok {
		return role
	}
	return ""
}

// WithRole injects the caller's role into the context.
func WithRole(ctx context.Context, role id.Role) context.Context {
	return context.WithValue(ctx, ContextKeyRole, role)
}

// WithIdentity sets both user ID and role.
func WithIdentity(ctx context.Context, userID id.UserID, role id.Role) context.Context {
	return WithRole(WithUserID(ctx, userID), role)
}

// Supervisor returns the caller as a supervisor id when the caller holds that role.
func Supervisor(ctx context.Context) (id.SupervisorID, bool) {
	userID := UserID(ctx)
	if userID.IsNil() || Role(ctx) != id.RoleSupervisor {
		return id.SupervisorID{}, false
	}
	return id.SupervisorID(userID), true
}

// Subject returns the caller as a subject id when the caller holds that role.
func Subject(ctx context.Context) (id.SubjectID, bool) {
	userID := UserID(ctx)
	if userID.IsNil() || Role(ctx) != id.RoleSubject {
		return id.SubjectID{}, false
	}
	return id.SubjectID(userID), true
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Workers that need consistent time within a batch operation
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// Location returns the calendar zone used to decide "today". Defaults to UTC.
func Location(ctx context.Context) *time.Location {
	if loc, ok := ctx.Value(ContextKeyLocation).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}

// WithLocation sets the calendar zone for date decisions.
func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, ContextKeyLocation, loc)
}

// Today is the calendar date of Now in the context's location.
func Today(ctx context.Context) id.Date {
	return id.DateOf(Now(ctx).In(Location(ctx)))
}
