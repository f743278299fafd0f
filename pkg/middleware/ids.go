// Package middleware holds what the HTTP and gRPC middleware share: the
// request and trace identifiers they place in the request context.
package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/hyp3rd/logbridge/internal/constants"
)

// WithTraceID returns ctx carrying the trace identifier id. Empty ids leave
// ctx unchanged.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}

	return context.WithValue(ctx, constants.TraceKey{}, id)
}

// WithRequestID returns ctx carrying the request identifier id. Empty ids
// leave ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}

	return context.WithValue(ctx, constants.RequestKey{}, id)
}

// TraceID returns the trace identifier stored in ctx.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(constants.TraceKey{}).(string)

	return id
}

// RequestID returns the request identifier stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestKey{}).(string)

	return id
}

// RandomID returns a random (version 4) UUID in its canonical form.
func RandomID() string {
	return uuid.NewString()
}
