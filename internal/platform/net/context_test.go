package net_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pnet "ytchat/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestWithRequest(t *testing.T) {
	base := context.Background()
	if pnet.WithRequest(base, "") != base {
		t.Fatalf("empty id should leave ctx unchanged")
	}
	if got := pnet.RequestID(pnet.WithRequest(base, "req-1")); got != "req-1" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := pnet.RequestID(base); got != "" {
		t.Fatalf("RequestID on bare ctx = %q", got)
	}
}

func TestRequestID_FromChiMiddleware(t *testing.T) {
	var got string
	h := chimw.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = pnet.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/ask", nil)
	req.Header.Set(chimw.RequestIDHeader, "ext-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "ext-42" {
		t.Fatalf("RequestID = %q, want ext-42", got)
	}
}
