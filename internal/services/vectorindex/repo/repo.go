// Package repo provides postgres + pgvector storage for the per video index
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytchat/internal/core/videoref"
	"ytchat/internal/modkit/repokit"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/store"
	"ytchat/internal/services/vectorindex/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// Repo is the full storage contract for the index
type Repo interface {
	domain.Index
	domain.Lease
	domain.Prober
}

type (
	// PG implements Repo on postgres with the vector extension
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// dbErr marks connection level failures as unavailable so reads can be retried
func dbErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, msg)
	}
	return perr.FromPostgres(err, msg)
}

func (r *queries) NamespaceExists(ctx context.Context, id videoref.ID) (bool, error) {
	ok, err := store.Scalar[bool](ctx, r.q, `select exists (select 1 from video_segments where video_id = $1)`, id.String())
	return ok, dbErr(err, "vectorindex: namespace exists")
}

func (r *queries) Upsert(ctx context.Context, docs []domain.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	var (
		seqs   = make([]int32, len(docs))
		texts  = make([]string, len(docs))
		starts = make([]float64, len(docs))
		durs   = make([]float64, len(docs))
		vecs   = make([]string, len(docs))
	)
	for i, d := range docs {
		if d.VideoID != docs[0].VideoID {
			return 0, perr.Newf(perr.ErrorCodeValidation, "vectorindex: upsert mixes videos %s and %s", docs[0].VideoID, d.VideoID)
		}
		seqs[i] = int32(d.Seq)
		texts[i] = d.Segment.Text
		starts[i] = d.Segment.Start
		durs[i] = d.Segment.Duration
		vecs[i] = pgvector.NewVector(d.Embedding).String()
	}

	var written int64
	write := func(q repokit.Queryer) (err error) {
		written, err = store.Affected(ctx, q, `
			insert into video_segments (video_id, seq, text, start_s, duration_s, embedding)
			select $1, u.seq, u.text, u.start_s, u.duration_s, u.embedding::vector
			  from unnest($2::int[], $3::text[], $4::float8[], $5::float8[], $6::text[])
			    as u(seq, text, start_s, duration_s, embedding)
			on conflict (video_id, seq) do nothing
		`, docs[0].VideoID.String(), seqs, texts, starts, durs, vecs)
		return err
	}

	var err error
	if tx, ok := r.q.(repokit.TxRunner); ok {
		err = repokit.WithTx(ctx, tx, write)
	} else {
		err = write(r.q)
	}
	if err != nil {
		return 0, dbErr(err, "vectorindex: upsert")
	}
	return int(written), nil
}

func (r *queries) Query(ctx context.Context, id videoref.ID, vec []float32, k int) ([]domain.Match, error) {
	if k <= 0 {
		k = domain.DefaultTopK
	}
	out, err := store.Many(ctx, r.q, scanMatch, `
		select seq, text, start_s, duration_s, embedding <=> $2::vector as distance
		from video_segments
		where video_id = $1
		order by distance asc, seq asc
		limit $3
	`, id.String(), pgvector.NewVector(vec), k)
	return out, dbErr(err, "vectorindex: query")
}

func scanMatch(row store.Row) (domain.Match, error) {
	var (
		m    domain.Match
		dist float64
	)
	err := row.Scan(&m.Seq, &m.Segment.Text, &m.Segment.Start, &m.Segment.Duration, &dist)
	m.Score = 1 - dist
	return m, err
}

func (r *queries) Acquire(ctx context.Context, id videoref.ID, holder string, ttl time.Duration) (bool, error) {
	claimed, err := store.One(ctx, r.q, scanBool, `
		insert into video_ingestions (video_id, state, holder, leased_at)
		values ($1, $2, $3, now())
		on conflict (video_id) do update
		   set holder = excluded.holder, leased_at = now()
		 where video_ingestions.state = $2
		   and video_ingestions.leased_at <= now() - ($4)::interval
		returning true
	`, id.String(), domain.StateRunning, holder, toInterval(ttl))
	if errors.Is(err, perr.ErrNotFound) {
		// a live or finished lease kept the row
		return false, nil
	}
	return claimed, dbErr(err, "vectorindex: acquire lease")
}

func scanBool(row store.Row) (bool, error) {
	var b bool
	err := row.Scan(&b)
	return b, err
}

func (r *queries) Complete(ctx context.Context, id videoref.ID, holder string, segments int) error {
	_, err := r.q.Exec(ctx, `
		update video_ingestions
		   set state = $3, segments = $4, completed_at = now()
		 where video_id = $1 and holder = $2
	`, id.String(), holder, domain.StateDone, segments)
	return dbErr(err, "vectorindex: complete lease")
}

func (r *queries) Release(ctx context.Context, id videoref.ID, holder string) error {
	_, err := r.q.Exec(ctx, `
		delete from video_ingestions
		 where video_id = $1 and holder = $2 and state = $3
	`, id.String(), holder, domain.StateRunning)
	return dbErr(err, "vectorindex: release lease")
}

func (r *queries) Stats(ctx context.Context, id videoref.ID) (domain.Stats, error) {
	st := domain.Stats{VideoID: id}
	err := r.q.QueryRow(ctx, `
		select (select count(*) from video_segments where video_id = $1),
		       coalesce((select state from video_ingestions where video_id = $1), '')
	`, id.String()).Scan(&st.Segments, &st.State)
	if err != nil {
		return st, dbErr(err, "vectorindex: stats")
	}
	st.Exists = st.Segments > 0
	return st, nil
}

func toInterval(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d/time.Second))
}
