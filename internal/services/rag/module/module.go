// Package module composes transcripts, vectorindex, asklog and the openai
// adapter into the ask orchestrator
package module

import (
	"ytchat/internal/adapters/llm/openai"
	"ytchat/internal/modkit"
	"ytchat/internal/modkit/httpkit"
	"ytchat/internal/modkit/module"
	asklogmod "ytchat/internal/services/asklog/module"
	"ytchat/internal/services/rag/domain"
	"ytchat/internal/services/rag/service"
	transcriptsmod "ytchat/internal/services/transcripts/module"
	vidx "ytchat/internal/services/vectorindex/domain"
	vectorindexmod "ytchat/internal/services/vectorindex/module"
)

// Ports exposed by the rag module
type Ports struct {
	Answerer domain.ServicePort
	Prober   vidx.Prober
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
	subs  []modkit.Module
}

// New constructs the rag module and the modules it depends on
// it panics when the openai client cannot be built and no overrides are given
func New(deps modkit.Deps, o Options) *Module {
	emb, gen := o.Embedder, o.Generator
	if emb == nil || gen == nil {
		client, err := openai.New(o.OpenAI)
		if err != nil {
			panic(err)
		}
		if emb == nil {
			emb = client
		}
		if gen == nil {
			gen = client
		}
	}

	tm := transcriptsmod.New(deps, o.Transcripts)
	vo := o.VectorIndex
	vo.Embedder = emb
	vm := vectorindexmod.New(deps, vo)
	lm := asklogmod.New(deps)

	tp := module.MustPortsOf[transcriptsmod.Ports](tm)
	vp := module.MustPortsOf[vectorindexmod.Ports](vm)
	lp := module.MustPortsOf[asklogmod.Ports](lm)

	svc := service.New(service.Deps{
		Transcripts: tp.Fetcher,
		Guard:       vp.Guard,
		Retriever:   vp.Retriever,
		Generator:   gen,
		Log:         lp.Writer,
	}, service.Config{TopK: o.TopK})

	return &Module{
		deps:  deps,
		ports: Ports{Answerer: svc, Prober: vp.Prober},
		subs:  []modkit.Module{tm, vm, lm},
	}
}

// Submodules returns the composed modules so callers can register their ports
func (m *Module) Submodules() []modkit.Module { return m.subs }

// Name implements modkit.Module
func (m *Module) Name() string { return "rag" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
