package modkit

import (
	"net/http"

	phttp "ytchat/internal/platform/net/http"
	str "ytchat/internal/platform/strings"
)

// Built is the resolved option set a module constructor reads from
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build resolves opts in order; later options win except middleware, which accumulates
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Mount registers routes under the built prefix with the module middleware applied
func (b Built) Mount(r phttp.Router, register func(phttp.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(rr phttp.Router) {
		for _, mw := range b.Mw {
			rr.Use(mw)
		}
		register(rr)
	})
}
