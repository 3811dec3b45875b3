// Package module provides the transcripts module
package module

import (
	"ytchat/internal/adapters/captions/youtube"
	"ytchat/internal/modkit"
	"ytchat/internal/modkit/httpkit"
	"ytchat/internal/services/transcripts/domain"
	"ytchat/internal/services/transcripts/repo"
	"ytchat/internal/services/transcripts/service"
)

// Ports exposed by the transcripts module
type Ports struct {
	Fetcher domain.FetcherPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the transcripts module
// the redis cache is used when deps.KV is set
func New(deps modkit.Deps, o Options) *Module {
	src := o.Source
	if src == nil {
		src = youtube.NewClient(youtube.Options{
			BaseURL:  o.BaseURL,
			Timeout:  o.Timeout,
			MaxTries: uint(max(o.MaxTries, 1)),
		})
	}

	var cache domain.Cache = repo.Nop{}
	if deps.KV != nil {
		cache = repo.NewRedis(deps.KV, o.CacheTTL)
	}

	svc := service.New(src, cache, service.Config{
		Lang:    o.Lang,
		Timeout: o.FetchTimeout,
	})

	return &Module{deps: deps, ports: Ports{Fetcher: svc}}
}

// Name implements modkit.Module
func (m *Module) Name() string { return "transcripts" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
