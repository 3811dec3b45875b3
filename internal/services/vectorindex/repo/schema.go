package repo

import (
	"context"
	"fmt"

	"ytchat/internal/modkit/repokit"
	perr "ytchat/internal/platform/errors"
)

// EnsureSchema creates the vector extension and index tables when missing
// dims must match the embedding model
func EnsureSchema(ctx context.Context, q repokit.Queryer, dims int) error {
	if dims <= 0 {
		return perr.InvalidArgf("vectorindex: embedding dims must be positive, got %d", dims)
	}
	stmts := []string{
		`create extension if not exists vector`,
		fmt.Sprintf(`
create table if not exists video_segments (
  video_id   text not null,
  seq        int not null,
  text       text not null,
  start_s    double precision not null,
  duration_s double precision not null,
  embedding  vector(%d) not null,
  created_at timestamptz not null default now(),
  primary key (video_id, seq)
)`, dims),
		`
create table if not exists video_ingestions (
  video_id     text primary key,
  state        text not null,
  holder       text not null,
  segments     int not null default 0,
  leased_at    timestamptz not null default now(),
  completed_at timestamptz
)`,
	}
	for _, s := range stmts {
		if _, err := q.Exec(ctx, s); err != nil {
			return perr.FromPostgres(err, "vectorindex: ensure schema")
		}
	}
	return nil
}
