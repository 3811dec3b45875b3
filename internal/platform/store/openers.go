package store

import (
	"context"
	"fmt"
	"time"

	chx "ytchat/internal/platform/store/ch"
	"ytchat/internal/platform/store/pg"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

// openPG opens pg and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		Tracer:   tracer,
	})
	if err != nil {
		return nil, err
	}

	tries := uint(20)
	if cfg.PG.ConnectRetries > 0 {
		tries = uint(cfg.PG.ConnectRetries)
	}
	timeout := 3 * time.Second
	if cfg.PG.PingTimeout > 0 {
		timeout = cfg.PG.PingTimeout
	}

	// ping the pool directly so no SQL trace line is emitted
	if err := pingWithBackoff(ctx, s, "postgres", tries, timeout, p.Pool.Ping); err != nil {
		p.Close()
		return nil, err
	}
	// publish adapter only after the pool is healthy
	a := newPGAdapter(p)
	s.PG = a
	return a, nil
}

// pingWithBackoff retries ping with exponential backoff between 150ms and 2s
// parent cancellation stops the loop immediately
func pingWithBackoff(ctx context.Context, s *Store, name string, tries uint, timeout time.Duration, ping func(context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 150 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return struct{}{}, ping(pctx)
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, d time.Duration) {
			s.Log.Debug().Err(err).Str("backend", name).Dur("retry_in", d).Msg("ping failed")
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s ping failed after %d attempts: %w", name, tries, err)
	}
	return nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

// newRedis is a seam for tests
var newRedis = func(o *redis.Options) redis.UniversalClient { return redis.NewClient(o) }

// openRedis parses the url, connects and pings with exponential backoff
func openRedis(ctx context.Context, cfg Config, s *Store) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(cfg.RDS.URL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	if cfg.RDS.DB > 0 {
		opts.DB = cfg.RDS.DB
	}
	if cfg.AppName != "" {
		opts.ClientName = cfg.AppName
	}
	tries := cfg.RDS.ConnectTries
	if tries == 0 {
		tries = 10
	}

	c := newRedis(opts)
	ping := func(ctx context.Context) error { return c.Ping(ctx).Err() }
	if err := pingWithBackoff(ctx, s, "redis", tries, 3*time.Second, ping); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}
