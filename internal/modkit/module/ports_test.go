package module

import (
	"context"
	"strings"
	"testing"

	phttp "ytchat/internal/platform/net/http"
)

type fetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

type indexer interface{ Index(videoID string) error }

type fakeFetcher struct{}

func (fakeFetcher) Fetch(context.Context, string) (string, error) { return "hello", nil }

type bundle struct {
	Fetcher fetcher
	hidden  indexer
}

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) MountRoutes(phttp.Router) {}
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) Name() string             { return m.name }

func TestPortsOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil bundle", nil, false},
		{"bundle is the port", fakeFetcher{}, true},
		{"exported field", bundle{Fetcher: fakeFetcher{}}, true},
		{"pointer bundle", &bundle{Fetcher: fakeFetcher{}}, true},
		{"nil field", bundle{}, false},
		{"not a struct", 42, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := PortsOf[fetcher](fakeModule{name: "transcripts", ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v want %v", ok, tc.ok)
			}
			if ok {
				if s, _ := f.Fetch(context.Background(), "dQw4w9WgXcQ"); s != "hello" {
					t.Fatalf("fetch = %q", s)
				}
			}
		})
	}
}

func TestPortsOfSkipsUnexported(t *testing.T) {
	t.Parallel()
	if _, ok := PortsOf[indexer](fakeModule{ports: bundle{}}); ok {
		t.Fatal("unexported field should not be visible")
	}
}

func TestMustPortsOfPanicsWithModuleName(t *testing.T) {
	t.Parallel()
	defer func() {
		v := recover()
		msg, _ := v.(string)
		if !strings.Contains(msg, "vectorindex") || !strings.Contains(msg, "module.fetcher") {
			t.Fatalf("panic = %v", v)
		}
	}()
	MustPortsOf[fetcher](fakeModule{name: "vectorindex"})
}
