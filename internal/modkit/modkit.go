package modkit

import "ytchat/internal/modkit/module"

// Module is the surface every ytchat module exposes to the composition root
type Module = module.Module
