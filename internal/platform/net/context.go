// Package net carries request scoped ids across transports
package net

import (
	"context"

	"addrcheck/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest stores reqID where both chi and the logger look for it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// RequestID returns the request id on ctx, "" when absent
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
