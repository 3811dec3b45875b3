// Package pg opens the postgres pool backing the vector index and ask log
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	AppName  string
	MaxConns int32

	// SlowMs marks traced queries at or above this latency as slow, negative disables
	SlowMs int
	Tracer QueryTracer
}

// PG owns the pool and the trace settings used by store adapters
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// PoolOption tweaks the parsed pool config before the pool is created
type PoolOption func(*pgxpool.Config)

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and creates the pool, it does not ping
func Open(ctx context.Context, cfg Config, opts ...PoolOption) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	for _, o := range opts {
		o(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: cfg.Tracer, SlowMs: cfg.SlowMs}, nil
}

// Close is nil safe
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
