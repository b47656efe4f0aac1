package logger

import (
	"context"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id carried by the context, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// ForRequest returns base enriched with the context's request id, or base
// unchanged when the context carries none.
func ForRequest(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if id, ok := RequestID(ctx); ok {
		return base.With().Str("requestId", id).Logger()
	}
	return base
}
