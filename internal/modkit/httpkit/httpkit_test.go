package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "ytchat/internal/platform/errors"
	phttp "ytchat/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type askIn struct {
	Question string `json:"question" validate:"required"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: %v body=%q", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, env
}

func TestMountAPIV1_GetAndPostJSON(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	var mwHits int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			mwHits++
			next.ServeHTTP(w, req)
		})
	}

	MountAPIV1(r, []func(http.Handler) http.Handler{mw}, func(api Router) {
		Get(api, "/meta/health", func(*http.Request) (any, error) {
			return map[string]string{"status": "ok"}, nil
		})
		PostJSON(api, "/ask", func(_ *http.Request, in askIn) (any, error) {
			if in.Question == "down" {
				return nil, perr.Unavailablef("llm down")
			}
			return map[string]string{"answer": "re: " + in.Question}, nil
		})
	})
	r.Route("/outside", func(o Router) {
		Get(o, "/", func(*http.Request) (any, error) { return "x", nil })
	})

	if code, env := do(t, r.Mux(), http.MethodGet, "/api/v1/meta/health", ""); code != 200 || env.Data.(map[string]any)["status"] != "ok" {
		t.Fatalf("health: %d %+v", code, env)
	}
	if code, env := do(t, r.Mux(), http.MethodPost, "/api/v1/ask", `{"question":"why"}`); code != 200 || env.Data.(map[string]any)["answer"] != "re: why" {
		t.Fatalf("ask: %d %+v", code, env)
	}
	if code, env := do(t, r.Mux(), http.MethodPost, "/api/v1/ask", `{}`); code != 400 || env.Code != perr.ErrorCodeValidation {
		t.Fatalf("invalid ask: %d %+v", code, env)
	}
	if code, _ := do(t, r.Mux(), http.MethodPost, "/api/v1/ask", `{"question":"down"}`); code != 503 {
		t.Fatalf("down ask: %d", code)
	}
	if mwHits != 4 {
		t.Fatalf("scope middleware hits = %d, want 4", mwHits)
	}
	do(t, r.Mux(), http.MethodGet, "/outside/", "")
	if mwHits != 4 {
		t.Fatalf("middleware leaked outside /api/v1")
	}
}

func TestMountAPI_NoMiddleware(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	MountAPI(r, "v2", nil, func(api Router) {
		Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})
	if code, env := do(t, r.Mux(), http.MethodGet, "/api/v2/ping", ""); code != 200 || env.Data != "pong" {
		t.Fatalf("v2 ping: %d %+v", code, env)
	}
}
