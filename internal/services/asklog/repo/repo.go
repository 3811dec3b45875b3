// Package repo writes interactions to clickhouse
package repo

import (
	"context"
	"math"
	"time"

	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/store"
	"ytchat/internal/services/asklog/domain"

	"github.com/google/uuid"
)

// Table is the clickhouse table interactions land in
const Table = "ask_interactions"

// Schema creates Table when missing
const Schema = `
CREATE TABLE IF NOT EXISTS ask_interactions (
  id           UUID,
  ts           DateTime64(3),
  video_id     String,
  mode         LowCardinality(String),
  question     String,
  answer_chars UInt32,
  retrieved    UInt8,
  ingested     UInt32,
  latency_ms   UInt32
) ENGINE = MergeTree
ORDER BY (video_id, ts)`

// CH writes interactions through the store clickhouse seam
type CH struct {
	ch  store.Clickhouse
	now func() time.Time
}

// NewCH returns a clickhouse backed writer
func NewCH(ch store.Clickhouse) *CH {
	if ch == nil {
		panic("asklog.CH requires a non nil Clickhouse")
	}
	return &CH{ch: ch, now: time.Now}
}

var _ domain.Writer = (*CH)(nil)

// EnsureTable applies Schema
func (w *CH) EnsureTable(ctx context.Context) error {
	if err := w.ch.Exec(ctx, Schema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "asklog: ensure table")
	}
	return nil
}

// Record implements domain.Writer
func (w *CH) Record(ctx context.Context, in domain.Interaction) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if in.At.IsZero() {
		in.At = w.now()
	}
	row := []any{
		in.ID,
		in.At.UTC(),
		in.VideoID,
		in.Mode,
		in.Question,
		clampU32(int64(in.AnswerChars)),
		uint8(min(max(in.Retrieved, 0), math.MaxUint8)),
		clampU32(int64(in.Ingested)),
		clampU32(in.Latency.Milliseconds()),
	}
	if err := w.ch.Insert(ctx, Table, [][]any{row}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "asklog: insert")
	}
	return nil
}

func clampU32(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// Nop drops interactions, used when clickhouse is disabled
type Nop struct{}

// Record implements domain.Writer
func (Nop) Record(context.Context, domain.Interaction) error { return nil }
