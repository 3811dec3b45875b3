// Package api provides the HTTP API for the application
package api

import (
	"fmt"
	"time"

	"ytchat/internal/platform/config"
	"ytchat/internal/platform/logger"
	phttp "ytchat/internal/platform/net/http"
	"ytchat/internal/platform/store"

	"ytchat/internal/modkit"
	"ytchat/internal/modkit/httpkit"
	"ytchat/internal/modkit/module"
	"ytchat/internal/modkit/swaggerkit"

	askmod "ytchat/internal/services/api/ask/module"
	metamod "ytchat/internal/services/api/meta/module"
	ragmod "ytchat/internal/services/rag/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
	// RequestTimeout bounds each request, default 60s
	RequestTimeout time.Duration

	// RAG overrides ragmod.FromConfig when set
	RAG *ragmod.Options
}

// Deps builds the shared module deps from the opened store
func Deps(opt Options) modkit.Deps {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
		deps.KV = opt.Store.KV
	}
	return deps
}

// Mount mounts the API service onto the given router
// POST /ask is served under /api/v1 and again at the root, without the envelope, for the browser extension
func Mount(r phttp.Router, opt Options) {
	deps := Deps(opt)

	ro := opt.RAG
	if ro == nil {
		o := ragmod.FromConfig(deps.Cfg)
		ro = &o
	}
	timeout := opt.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if ro.OpenAI.MaxWait >= timeout {
		panic(fmt.Sprintf("api: openai max wait %s must be below the request timeout %s", ro.OpenAI.MaxWait, timeout))
	}

	rag := ragmod.New(deps, *ro)
	rp := module.MustPortsOf[ragmod.Ports](rag)
	answerer := rp.Answerer

	// ports only, these mount nothing
	module.Register(rag.Name(), rag.Ports())
	for _, m := range rag.Submodules() {
		module.Register(m.Name(), m.Ports())
	}

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Index: rp.Prober})),
		askmod.New(deps, modkit.WithPorts(askmod.Ports{Answerer: answerer})),
	}

	stack := httpkit.CommonStackWith(httpkit.StackOptions{CORSOrigins: opt.CORSOrigins, Timeout: timeout})

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	legacy := askmod.New(deps,
		modkit.WithName("ask-root"),
		modkit.WithPorts(askmod.Ports{Answerer: answerer, Bare: true}),
		modkit.WithMiddlewares(stack...),
	)
	legacy.MountRoutes(r)
}
