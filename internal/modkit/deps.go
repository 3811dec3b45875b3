// Package modkit provides module wiring and core deps
package modkit

import (
	"ytchat/internal/modkit/repokit"
	"ytchat/internal/platform/config"
	"ytchat/internal/platform/logger"
	"ytchat/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Deps holds the shared backends handed to every module
// PG, CH and KV stay nil when their backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	KV  redis.UniversalClient
}
