// Package repo provides transcript cache backends
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/services/transcripts/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ytchat:transcript:"

// Key returns the cache key for a video transcript in lang
func Key(lang string, id videoref.ID) string {
	return keyPrefix + lang + ":" + id.String()
}

// Redis caches transcripts as json blobs with a ttl
type Redis struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewRedis returns a redis backed cache, ttl <= 0 means no expiry
func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *Redis {
	if rdb == nil {
		panic("transcripts.Redis requires a non nil client")
	}
	return &Redis{rdb: rdb, ttl: ttl}
}

var _ domain.Cache = (*Redis)(nil)

// Get implements domain.Cache
func (r *Redis) Get(ctx context.Context, id videoref.ID, lang string) ([]transcript.Segment, bool, error) {
	raw, err := r.rdb.Get(ctx, Key(lang, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, perr.Wrap(err, perr.ErrorCodeUnavailable, "transcript cache get")
	}
	var segs []transcript.Segment
	if err := json.Unmarshal(raw, &segs); err != nil {
		return nil, false, perr.Wrap(err, perr.ErrorCodeJSON, "transcript cache decode")
	}
	if len(segs) == 0 {
		return nil, false, nil
	}
	return segs, true, nil
}

// Put implements domain.Cache
func (r *Redis) Put(ctx context.Context, id videoref.ID, lang string, segs []transcript.Segment) error {
	raw, err := json.Marshal(segs)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "transcript cache encode")
	}
	if err := r.rdb.Set(ctx, Key(lang, id), raw, r.ttl).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "transcript cache set")
	}
	return nil
}

// Nop is the cache used when redis is disabled
type Nop struct{}

// Get always misses
func (Nop) Get(context.Context, videoref.ID, string) ([]transcript.Segment, bool, error) {
	return nil, false, nil
}

// Put drops the value
func (Nop) Put(context.Context, videoref.ID, string, []transcript.Segment) error { return nil }
