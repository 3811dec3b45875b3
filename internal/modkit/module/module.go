// Package module holds the module contract and the process wide port registry
package module

import phttp "ytchat/internal/platform/net/http"

// Module mounts routes and exposes a port bundle for sibling modules
// modules that serve no HTTP leave MountRoutes empty
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
