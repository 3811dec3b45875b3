// Package store opens the optional postgres, clickhouse and redis backends behind small seams
package store

import (
	"context"
	"errors"
	"fmt"

	"ytchat/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Store holds whichever backends were enabled; a disabled backend stays nil
type Store struct {
	Log logger.Logger

	PG TxRunner
	CH Clickhouse
	KV redis.UniversalClient
}

// Option adjusts the Store before any backend is opened
type Option func(*Store) error

// WithLogger sets the logger backends report through
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error { s.Log = log; return nil }
}

// Open connects every backend enabled in cfg
// on failure the backends already opened are closed again
func Open(ctx context.Context, cfg Config, opts ...Option) (s *Store, err error) {
	s = &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	defer func() {
		if err != nil {
			_ = s.Close(context.WithoutCancel(ctx))
			s = nil
		}
	}()

	if cfg.PG.Enabled {
		if s.PG, err = openPG(ctx, cfg, s); err != nil {
			return s, err
		}
	}
	if cfg.CH.Enabled {
		if s.CH, err = openCH(ctx, cfg, s); err != nil {
			return s, err
		}
	}
	if cfg.RDS.Enabled {
		if s.KV, err = openRedis(ctx, cfg, s); err != nil {
			return s, err
		}
	}
	s.Log.Info().
		Bool("pg", s.PG != nil).
		Bool("ch", s.CH != nil).
		Bool("redis", s.KV != nil).
		Msg("store ready")
	return s, nil
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	ping := func(name string, p any) {
		if pp, ok := p.(Pinger); ok {
			if err := pp.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if s.PG != nil {
		ping("pg", s.PG)
	}
	if s.CH != nil {
		ping("ch", s.CH)
	}
	if s.KV != nil {
		if err := s.KV.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend, pg last
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if s.KV != nil {
		errs = append(errs, s.KV.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
