// Package net holds transport helpers shared by the http packages
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest stores reqID where chi's RequestID middleware keeps it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the id set by chi's RequestID middleware, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
