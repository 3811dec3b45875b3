package service

import (
	"context"
	"time"

	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/logger"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds retries of idempotent index reads
type RetryPolicy struct {
	MaxTries uint
	Base     time.Duration
	MaxWait  time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxTries == 0 {
		p.MaxTries = 3
	}
	if p.Base <= 0 {
		p.Base = 200 * time.Millisecond
	}
	if p.MaxWait <= 0 {
		p.MaxWait = 30 * time.Second
	}
	return p
}

// read retries fn while it fails with a transient error
func read[T any](ctx context.Context, p RetryPolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.Base

	return backoff.Retry(ctx, func() (T, error) {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		err = perr.FromContext(err, op)
		if !perr.Retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(p.MaxTries),
		backoff.WithMaxElapsedTime(p.MaxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.C(ctx).Warn().Err(err).Str("op", op).Dur("next", next).Msg("index read failed, retrying")
		}),
	)
}
