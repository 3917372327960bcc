// Package ctxutil carries request-scoped values through context.Context.
package ctxutil

import (
	"context"

	nanoid "github.com/matoous/go-nanoid/v2"
)

type contextKey string

// TraceIDKey is the context key holding the request trace ID.
const TraceIDKey contextKey = "trace_id"

const traceIDSize = 16

// GetTraceID gets the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets the trace ID on the context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context, generating one if absent.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := nanoid.Must(traceIDSize)
	return SetTraceID(ctx, traceID), traceID
}
