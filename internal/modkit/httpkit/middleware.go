package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"ytchat/internal/platform/net/middleware"
)

// StackOptions tunes CommonStackWith
type StackOptions struct {
	// CORSOrigins defaults to "*" when empty
	CORSOrigins []string
	// Timeout bounds each request, default 60s
	Timeout time.Duration
	// Slow marks access log lines at warn level, default 2s
	Slow time.Duration
}

// CommonStack returns a baseline per module middleware slice
func CommonStack() []func(http.Handler) http.Handler {
	return CommonStackWith(StackOptions{})
}

// CommonStackWith is CommonStack with knobs from config
func CommonStackWith(o StackOptions) []func(http.Handler) http.Handler {
	origins := o.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := o.Timeout
	if timeout <= 0 {
		// generation over a long transcript can take a while
		timeout = 60 * time.Second
	}
	slow := o.Slow
	if slow <= 0 {
		slow = 2 * time.Second
	}

	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.LogContext(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLog(middleware.AccessLogOptions{Slow: slow}),

		// the browser extension calls from a chrome-extension:// origin
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	}
}
