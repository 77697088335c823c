// Package context carries request-scoped correlation values used by logging
// and tracing.
package context

import (
	"context"
	"strings"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	roleKey
	clientKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithRole records the caller role resolved by the auth gateway.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, strings.TrimSpace(role))
}

func RoleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(roleKey).(string)
	return v
}

// WithClient records the caller identity used for rate limiting.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientKey, strings.TrimSpace(client))
}

func ClientFromContext(ctx context.Context) string {
	v, _ := ctx.Value(clientKey).(string)
	return v
}
