// Package domain holds the transcript acquisition contracts
package domain

import (
	"context"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
)

// ErrNoTranscript is the single recoverable no transcript outcome
var ErrNoTranscript = transcript.ErrNoTranscript

// CaptionSource fetches caption segments from the upstream provider
// implementations return ErrNoTranscript for disabled, missing or empty captions
type CaptionSource interface {
	Fetch(ctx context.Context, id videoref.ID, lang string) ([]transcript.Segment, error)
}

// Cache stores fetched transcripts keyed by language and video
// ok is false on a miss
type Cache interface {
	Get(ctx context.Context, id videoref.ID, lang string) (segs []transcript.Segment, ok bool, err error)
	Put(ctx context.Context, id videoref.ID, lang string, segs []transcript.Segment) error
}

// FetcherPort is what other modules consume
type FetcherPort interface {
	Fetch(ctx context.Context, id videoref.ID) ([]transcript.Segment, error)
}
