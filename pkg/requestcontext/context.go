// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// This package defines context keys and getter/setter functions for values that
// are typically set by middleware but consumed by services and workers. By
// keeping this package free of net/http dependencies, services can import only
// what they need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	clientID := requestcontext.ClientID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithClientID(ctx, clientID)
//	ctx = requestcontext.WithValidSource(ctx, true)
package requestcontext

import "context"

// Context key types (unexported for encapsulation).
type (
	clientIDKey    struct{}
	validSourceKey struct{}
	requestIDKey   struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyClientID    = clientIDKey{}
	ContextKeyValidSource = validSourceKey{}
	ContextKeyRequestID   = requestIDKey{}
)

// ClientID retrieves the tenant owning the notification source from the
// context. Returns "" if not set.
func ClientID(ctx context.Context) string {
	if clientID, ok := ctx.Value(ContextKeyClientID).(string); ok {
		return clientID
	}
	return ""
}

// WithClientID injects a client ID into the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ContextKeyClientID, clientID)
}

// ValidSource reports whether the sender's credential was recognized by the
// upstream access-control step. Defaults to false when unset.
func ValidSource(ctx context.Context) bool {
	if valid, ok := ctx.Value(ContextKeyValidSource).(bool); ok {
		return valid
	}
	return false
}

// WithValidSource marks the request as coming from a recognized source.
func WithValidSource(ctx context.Context, valid bool) context.Context {
	return context.WithValue(ctx, ContextKeyValidSource, valid)
}

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
