// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// RequestIDKey is the context key for the request ID.
type RequestIDKey struct{}

// SourceKey is the context key for the surface that issued the call
// ("cli", "http", "sync").
type SourceKey struct{}

// WithRequestID returns a context with the request ID embedded.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, requestID)
}

// RequestIDFromContext returns the request ID from context, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithSource returns a context tagged with the calling surface.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey{}, source)
}

// SourceFromContext returns the calling surface, or empty string if not set.
func SourceFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(SourceKey{}).(string); ok {
		return v
	}
	return ""
}

// LogFields returns the context values as logger key/value pairs.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	if id := RequestIDFromContext(ctx); id != "" {
		kv = append(kv, "request_id", id)
	}
	if src := SourceFromContext(ctx); src != "" {
		kv = append(kv, "source", src)
	}
	return kv
}
