// Package module provides the interaction log module
package module

import (
	"context"
	"time"

	"ytchat/internal/modkit"
	"ytchat/internal/modkit/httpkit"
	"ytchat/internal/services/asklog/domain"
	"ytchat/internal/services/asklog/repo"
)

// Ports exposed by the asklog module
type Ports struct {
	Writer domain.Writer
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the asklog module
// without clickhouse interactions are dropped
func New(deps modkit.Deps) *Module {
	m := &Module{deps: deps, ports: Ports{Writer: repo.Nop{}}}
	if deps.CH == nil {
		return m
	}

	w := repo.NewCH(deps.CH)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.EnsureTable(ctx); err != nil {
		deps.Log.Error().Err(err).Msg("asklog: ensure table failed, interaction log disabled")
		return m
	}
	m.ports.Writer = w
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "asklog" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
