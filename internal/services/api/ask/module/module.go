// Package module wires the ask endpoint into the API using modkit
package module

import (
	modkit "ytchat/internal/modkit"
	"ytchat/internal/modkit/httpkit"
	str "ytchat/internal/platform/strings"
	askhttp "ytchat/internal/services/api/ask/http"
	ragdom "ytchat/internal/services/rag/domain"
)

// Ports is what the ask module expects via modkit.WithPorts
type Ports struct {
	Answerer ragdom.ServicePort

	// Bare drops the envelope around results and errors
	Bare bool
}

// Module serves POST {prefix}
type Module struct {
	b     modkit.Built
	ports Ports
}

// New builds the ask module; it panics without an Answerer
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("ask"), modkit.WithPrefix("/ask")}, opts...)...)
	p, ok := b.Ports.(Ports)
	if !ok || p.Answerer == nil {
		panic("ask module requires modkit.WithPorts(Ports{Answerer})")
	}
	return &Module{b: b, ports: p}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	register := askhttp.Register
	if m.ports.Bare {
		register = askhttp.RegisterBare
	}
	m.b.Mount(r, func(rr httpkit.Router) { register(rr, m.ports.Answerer) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
