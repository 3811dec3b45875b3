// Package service acquires transcripts through the cache and the caption source
package service

import (
	"context"
	"errors"
	"time"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/logger"
	"ytchat/internal/services/transcripts/domain"
)

// Config tunes the acquirer
type Config struct {
	// Lang is the caption language, default en
	Lang string
	// Timeout bounds one source fetch including retries
	Timeout time.Duration
}

// Service is the transcript acquirer
type Service interface{ domain.FetcherPort }

// Svc implements Service
type Svc struct {
	src   domain.CaptionSource
	cache domain.Cache
	cfg   Config
	log   logger.Logger
}

// New creates the acquirer, a nil cache disables caching
func New(src domain.CaptionSource, cache domain.Cache, cfg Config) *Svc {
	if src == nil {
		panic("transcripts.Service requires a non nil CaptionSource")
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Svc{src: src, cache: cache, cfg: cfg, log: *logger.Named("transcripts")}
}

// Fetch returns the ordered segments for id
// domain.ErrNoTranscript is returned untouched so callers can match it
func (s *Svc) Fetch(ctx context.Context, id videoref.ID) ([]transcript.Segment, error) {
	if s.cache != nil {
		segs, ok, err := s.cache.Get(ctx, id, s.cfg.Lang)
		switch {
		case err != nil:
			logger.C(ctx).Warn().Err(err).Str("video_id", id.String()).Msg("transcript cache read failed")
		case ok:
			logger.C(ctx).Debug().Str("video_id", id.String()).Int("segments", len(segs)).Msg("transcript cache hit")
			return segs, nil
		}
	}

	fctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	segs, err := s.src.Fetch(fctx, id, s.cfg.Lang)
	if err != nil {
		if errors.Is(err, domain.ErrNoTranscript) {
			return nil, domain.ErrNoTranscript
		}
		return nil, perr.FromContext(err, "captions fetch")
	}
	if len(segs) == 0 {
		return nil, domain.ErrNoTranscript
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, id, s.cfg.Lang, segs); err != nil {
			logger.C(ctx).Warn().Err(err).Str("video_id", id.String()).Msg("transcript cache write failed")
		}
	}
	return segs, nil
}
