// Package module wires meta endpoints into the API
package module

import (
	"context"
	"time"

	modkit "ytchat/internal/modkit"
	"ytchat/internal/modkit/httpkit"
	str "ytchat/internal/platform/strings"
	metahttp "ytchat/internal/services/api/meta/http"
	vidx "ytchat/internal/services/vectorindex/domain"
)

const serviceName = "ytchat-api"

// Ports are optional for meta; Index enables GET /meta/index
type Ports struct {
	Index vidx.Prober
}

// Module serves health, readiness, build info and index probes
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New builds the meta module; readiness probes whichever backends deps carries
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	d := readyDeps(deps, time.Now())
	if p, ok := b.Ports.(Ports); ok {
		d.Index = p.Index
	}
	return &Module{b: b, deps: d}
}

// readyDeps keeps disabled backends as untyped nil so they report skipped
func readyDeps(deps modkit.Deps, started time.Time) metahttp.Deps {
	d := metahttp.Deps{ServiceName: serviceName, StartedAt: started}
	if deps.PG != nil {
		d.PG = deps.PG
	}
	if deps.CH != nil {
		d.CH = deps.CH
	}
	if deps.KV != nil {
		kv := deps.KV
		d.KV = metahttp.PingFunc(func(ctx context.Context) error { return kv.Ping(ctx).Err() })
	}
	return d
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Index: m.deps.Index} }
