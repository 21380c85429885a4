// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
//
//	identity := requestcontext.Identity(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithIdentity(ctx, requestcontext.User{ID: "1001"})
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"slices"
	"time"

	"golang.org/x/text/language"
)

// Context key types (unexported for encapsulation).
type (
	identityKey    struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	languageKey    struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyIdentity    = identityKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyLanguage    = languageKey{}
)

// Permissions granted to panel users.
const (
	PermissionResell  = "resell"
	PermissionSupport = "support"
	PermissionManage  = "manage"
)

// User is the authenticated panel account acting on the request.
type User struct {
	ID          string
	Login       string
	SellerID    string
	Permissions []string
}

// IsGuest reports whether no account is attached.
func (u User) IsGuest() bool {
	return u.ID == ""
}

// Can reports whether the user holds permission.
func (u User) Can(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

// Is reports whether the user is the account with the given id.
func (u User) Is(id string) bool {
	return id != "" && u.ID == id
}

// Not is the negation of Is used by the ownership rules.
func (u User) Not(id string) bool {
	return !u.Is(id)
}

// -----------------------------------------------------------------------------
// Identity
// -----------------------------------------------------------------------------

// Identity retrieves the authenticated user. Returns a guest when unset.
func Identity(ctx context.Context) User {
	if u, ok := ctx.Value(ContextKeyIdentity).(User); ok {
		return u
	}
	return User{}
}

// WithIdentity injects the authenticated user into the context.
func WithIdentity(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, user)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	return ctx
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

// Language retrieves the negotiated UI language. Defaults to English.
func Language(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ContextKeyLanguage).(language.Tag); ok {
		return tag
	}
	return language.English
}

// WithLanguage injects the negotiated UI language.
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ContextKeyLanguage, tag)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
