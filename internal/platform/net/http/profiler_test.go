package http_test

import (
	"net/http"
	"testing"

	"ytchat/internal/platform/config"
	phttp "ytchat/internal/platform/net/http"
)

func TestMountProfiler(t *testing.T) {
	on := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(on, "/debug", true)
	for _, p := range []string{"/debug/pprof/", "/debug/pprof/cmdline"} {
		if rec := serve(on, http.MethodGet, p); rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", p, rec.Code)
		}
	}

	off := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(off, "/debug", false)
	if rec := serve(off, http.MethodGet, "/debug/pprof/"); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler = %d", rec.Code)
	}
}
