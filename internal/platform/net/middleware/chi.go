// Package middleware holds the http middleware the API stack is assembled from
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RequestID propagates X-Request-Id or mints one and stores it on the context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP rewrites RemoteAddr from X-Forwarded-For and X-Real-IP
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// NoCache marks every response as uncacheable
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// StripSlashes routes /ask/ the same as /ask
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Timeout cancels the request context after d and answers 504 if nothing was written
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Compress gzips or deflates responses for clients that accept it
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level, "application/json").Handler
}

// CORSOptions narrows go-chi/cors to what the API configures
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int
}

// CORS answers preflights for the browser extension and the configured origins
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         o.MaxAge,
	})
}
