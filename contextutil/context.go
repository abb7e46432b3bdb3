package contextutil

import (
	"context"

	uuid "github.com/satori/go.uuid"
)

type (
	traceIDT int
)

const (
	traceIDKey traceIDT = iota
)

// WithTraceID returns a context with the given trace ID stored on it.
func WithTraceID(ctx context.Context, tID string) context.Context {
	return context.WithValue(ctx, traceIDKey, tID)
}

// TraceIDFromContext returns the trace ID stored on the context,
// minting and storing a fresh one when the context carries none. The
// possibly updated context is returned alongside the ID.
func TraceIDFromContext(ctx context.Context) (context.Context, string) {
	tID := ctx.Value(traceIDKey)
	if tID == nil {
		stID := uuid.NewV4().String()
		ctx = WithTraceID(ctx, stID)
		return ctx, stID
	}
	stID, ok := tID.(string)
	if !ok {
		stID = uuid.NewV4().String()
		ctx = WithTraceID(ctx, stID)
	}
	return ctx, stID
}
