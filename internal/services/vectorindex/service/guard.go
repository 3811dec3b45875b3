// Package service implements ingestion and retrieval over the per video index
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/logger"
	"ytchat/internal/services/vectorindex/domain"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// GuardConfig tunes ingestion
type GuardConfig struct {
	// EmbedBatch caps segments per embedding call, default 96
	EmbedBatch int
	// LeaseTTL is how long a running lease blocks other writers, default 10m
	LeaseTTL time.Duration
	// HolderWait is how long a caller that lost the lease waits for the holder
	// before writing itself, default 20s
	HolderWait time.Duration
	// IngestTimeout bounds one shared ingestion, default 2m
	IngestTimeout time.Duration
	Retry         RetryPolicy
}

// Guard ingests a video at most once across callers and instances
type Guard struct {
	index domain.Index
	lease domain.Lease
	emb   domain.Embedder
	cfg   GuardConfig

	sf     singleflight.Group
	holder func() string
}

// NewGuard wires a Guard
func NewGuard(index domain.Index, lease domain.Lease, emb domain.Embedder, cfg GuardConfig) *Guard {
	if index == nil || lease == nil || emb == nil {
		panic("vectorindex.Guard requires index, lease and embedder")
	}
	if cfg.EmbedBatch <= 0 {
		cfg.EmbedBatch = 96
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = 10 * time.Minute
	}
	if cfg.HolderWait <= 0 {
		cfg.HolderWait = 20 * time.Second
	}
	if cfg.IngestTimeout <= 0 {
		cfg.IngestTimeout = 2 * time.Minute
	}
	cfg.Retry = cfg.Retry.withDefaults()

	host, _ := os.Hostname()
	prefix := fmt.Sprintf("%s:%d", host, os.Getpid())
	return &Guard{
		index:  index,
		lease:  lease,
		emb:    emb,
		cfg:    cfg,
		holder: func() string { return prefix + ":" + uuid.NewString() },
	}
}

var _ domain.GuardPort = (*Guard)(nil)

// Ingest embeds and stores segs under id unless the namespace already exists;
// it returns the rows this call wrote. Callers for the same id share one run
// that outlives any single caller's context. When another instance holds the
// lease Ingest waits for it to finish, and writes itself if it does not.
func (g *Guard) Ingest(ctx context.Context, id videoref.ID, segs []transcript.Segment) (int, error) {
	if len(segs) == 0 {
		return 0, nil
	}
	leader := false
	ch := g.sf.DoChan(id.String(), func() (any, error) {
		leader = true
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.cfg.IngestTimeout)
		defer cancel()
		return g.ingest(ictx, id, segs)
	})

	select {
	case <-ctx.Done():
		return 0, perr.FromContext(ctx.Err(), "ingest")
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		if !leader {
			// collapsed onto a concurrent caller that did the writing
			return 0, nil
		}
		return res.Val.(int), nil
	}
}

var errLeaseHeld = errors.New("ingestion lease held elsewhere")

func (g *Guard) ingest(ctx context.Context, id videoref.ID, segs []transcript.Segment) (int, error) {
	log := logger.C(ctx)

	exists, err := read(ctx, g.cfg.Retry, "namespace exists", func(ctx context.Context) (bool, error) {
		return g.index.NamespaceExists(ctx, id)
	})
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	polled := false
	n, err := backoff.Retry(ctx, func() (int, error) {
		if polled {
			exists, err := g.index.NamespaceExists(ctx, id)
			if err != nil {
				if err = perr.FromContext(err, "namespace exists"); perr.Retryable(err) {
					return 0, err
				}
				return 0, backoff.Permanent(err)
			}
			if exists {
				return 0, nil
			}
		}
		polled = true

		holder := g.holder()
		ok, err := g.lease.Acquire(ctx, id, holder, g.cfg.LeaseTTL)
		if err != nil {
			return 0, backoff.Permanent(err)
		}
		if !ok {
			return 0, errLeaseHeld
		}
		n, err := g.leased(ctx, id, holder, segs)
		if err != nil {
			return 0, backoff.Permanent(err)
		}
		return n, nil
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxElapsedTime(g.cfg.HolderWait),
	)
	if errors.Is(err, errLeaseHeld) {
		// rows are keyed by (video_id, seq) so racing the holder only duplicates embedding work
		log.Warn().Str("video_id", id.String()).Dur("waited", g.cfg.HolderWait).Msg("lease holder still running, writing without lease")
		return g.write(ctx, id, segs)
	}
	return n, perr.FromContext(err, "ingest")
}

// leased writes segs while holding the lease and settles it either way
func (g *Guard) leased(ctx context.Context, id videoref.ID, holder string, segs []transcript.Segment) (int, error) {
	log := logger.C(ctx)

	start := time.Now()
	n, err := g.write(ctx, id, segs)
	if err != nil {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if rerr := g.lease.Release(rctx, id, holder); rerr != nil {
			log.Error().Err(rerr).Str("video_id", id.String()).Msg("lease release failed")
		}
		return 0, err
	}
	if err := g.lease.Complete(ctx, id, holder, n); err != nil {
		// rows are committed, the namespace check keeps later callers out
		log.Warn().Err(err).Str("video_id", id.String()).Msg("lease complete failed")
	}

	log.Info().
		Str("video_id", id.String()).
		Int("segments", len(segs)).
		Int("written", n).
		Dur("took", time.Since(start)).
		Msg("video ingested")
	return n, nil
}

func (g *Guard) write(ctx context.Context, id videoref.ID, segs []transcript.Segment) (int, error) {
	docs := make([]domain.Document, 0, len(segs))
	for start := 0; start < len(segs); start += g.cfg.EmbedBatch {
		end := min(start+g.cfg.EmbedBatch, len(segs))
		texts := make([]string, 0, end-start)
		for _, s := range segs[start:end] {
			texts = append(texts, s.Text)
		}
		vecs, err := g.emb.Embed(ctx, texts)
		if err != nil {
			return 0, err
		}
		if len(vecs) != len(texts) {
			return 0, perr.Newf(perr.ErrorCodeUnknown, "embedder returned %d vectors for %d texts", len(vecs), len(texts))
		}
		for i, v := range vecs {
			docs = append(docs, domain.Document{
				VideoID:   id,
				Seq:       start + i,
				Segment:   segs[start+i],
				Embedding: v,
			})
		}
	}
	return g.index.Upsert(ctx, docs)
}
