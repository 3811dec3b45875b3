// Package module provides the vectorindex module
package module

import (
	"context"
	"time"

	"ytchat/internal/modkit"
	"ytchat/internal/modkit/httpkit"
	"ytchat/internal/modkit/repokit"
	"ytchat/internal/services/vectorindex/domain"
	"ytchat/internal/services/vectorindex/repo"
	"ytchat/internal/services/vectorindex/service"
)

// Ports exposed by the vectorindex module
type Ports struct {
	Guard     domain.GuardPort
	Retriever domain.RetrieverPort
	Prober    domain.Prober
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the vectorindex module
// postgres backs the index when deps.PG is set, otherwise an in process index is used
func New(deps modkit.Deps, o Options) *Module {
	if o.Embedder == nil {
		panic("vectorindex module requires an Embedder")
	}

	var r repo.Repo
	if deps.PG != nil {
		if o.EnsureSchema {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := repo.EnsureSchema(ctx, deps.PG, o.Dims); err != nil {
				panic(err)
			}
		}
		pg := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(o.StatementTimeout))
		r = repokit.MustBind(repo.NewPG(), repokit.Queryer(pg))
	} else {
		deps.Log.Warn().Msg("vectorindex: postgres disabled, using in process index")
		r = repo.NewMemory()
	}

	guard := service.NewGuard(r, r, o.Embedder, service.GuardConfig{
		EmbedBatch: o.EmbedBatch,
		LeaseTTL:   o.LeaseTTL,
		HolderWait: o.HolderWait,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Guard:     guard,
		Retriever: service.NewRetriever(r, o.Embedder, service.RetryPolicy{}),
		Prober:    service.NewProber(r),
	}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "vectorindex" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
