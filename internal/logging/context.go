package logging

import (
	"context"
	"log/slog"
)

type searchIDKey struct{}

// ContextWithSearchID carries searchID to code that logs on its own logger.
func ContextWithSearchID(ctx context.Context, searchID string) context.Context {
	return context.WithValue(ctx, searchIDKey{}, searchID)
}

// SearchIDFromContext returns the search ID stored by ContextWithSearchID.
func SearchIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(searchIDKey{}).(string)
	return id
}

// FromContext tags logger with the search ID carried by ctx, if any.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id := SearchIDFromContext(ctx); id != "" {
		return logger.With(String(FieldSearchID, id))
	}
	return logger
}
