package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ytchat/internal/core/videoref"
	phttp "ytchat/internal/platform/net/http"
	vidx "ytchat/internal/services/vectorindex/domain"

	"github.com/go-chi/chi/v5"
)

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("%s status = %d", path, rec.Code)
	}
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func ok(context.Context) error { return nil }

func TestReady(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name   string
		d      Deps
		status string
	}{
		{"all ok", Deps{PG: PingFunc(ok), CH: PingFunc(ok), KV: PingFunc(ok)}, "ok"},
		{"redis disabled", Deps{PG: PingFunc(ok), CH: PingFunc(ok)}, "ok"},
		{"not a pinger", Deps{PG: PingFunc(ok), CH: struct{}{}, KV: PingFunc(ok)}, "degraded"},
		{"pg down", Deps{PG: PingFunc(down), KV: PingFunc(ok)}, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out ReadyResponse
			get(t, tc.d, "/ready", &out)
			if out.Status != tc.status {
				t.Fatalf("status = %q want %q (%+v)", out.Status, tc.status, out.Checks)
			}
			if len(out.Checks) != 3 || out.Checks[2].Name != "redis" {
				t.Fatalf("checks = %+v", out.Checks)
			}
		})
	}
}

func TestReady_FailCarriesError(t *testing.T) {
	var out ReadyResponse
	get(t, Deps{KV: PingFunc(func(context.Context) error { return errors.New("boom") })}, "/ready", &out)
	if out.Checks[2].Status != "fail" || out.Checks[2].Error != "boom" {
		t.Fatalf("redis check = %+v", out.Checks[2])
	}
}

func TestHealthAndService(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	d := Deps{ServiceName: "ytchat-api", StartedAt: started}

	var h HealthResponse
	get(t, d, "/health", &h)
	if !h.OK || h.Service != "ytchat-api" {
		t.Fatalf("health = %+v", h)
	}

	var s ServiceResponse
	get(t, d, "/service", &s)
	if s.Uptime < 59 {
		t.Fatalf("uptime = %d", s.Uptime)
	}
}

func TestOverall(t *testing.T) {
	if got := overall(nil); got != "ok" {
		t.Fatalf("empty = %q", got)
	}
	if got := overall([]ReadyCheck{{Status: "unknown"}, {Status: "fail"}}); got != "fail" {
		t.Fatalf("fail wins, got %q", got)
	}
	if got := overall([]ReadyCheck{{Status: "skipped"}, {Status: "ok"}}); got != "ok" {
		t.Fatalf("skipped should not degrade, got %q", got)
	}
}

type fakeProber struct{ seen videoref.ID }

func (f *fakeProber) Stats(_ context.Context, id videoref.ID) (vidx.Stats, error) {
	f.seen = id
	return vidx.Stats{VideoID: id, Exists: true, Segments: 42, State: "ready"}, nil
}

func TestIndex(t *testing.T) {
	p := &fakeProber{}
	var st vidx.Stats
	get(t, Deps{Index: p}, "/index?youtube_url=https://youtu.be/dQw4w9WgXcQ", &st)
	if p.seen != "dQw4w9WgXcQ" || !st.Exists || st.Segments != 42 {
		t.Fatalf("stats = %+v seen = %q", st, p.seen)
	}

	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), Deps{Index: p})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/index?youtube_url=https://vimeo.com/1", nil))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("bad url status = %d", rec.Code)
	}

	mux = chi.NewRouter()
	Register(phttp.AdaptChi(mux), Deps{})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/index", nil))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("index without a prober status = %d", rec.Code)
	}
}
