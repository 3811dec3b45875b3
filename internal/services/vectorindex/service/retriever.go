package service

import (
	"context"
	"sort"

	"ytchat/internal/core/videoref"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/services/vectorindex/domain"
)

// Retriever finds the segments nearest to a question
type Retriever struct {
	index domain.Index
	emb   domain.Embedder
	retry RetryPolicy
}

// NewRetriever wires a Retriever, emb must be the embedder used at ingestion
func NewRetriever(index domain.Index, emb domain.Embedder, retry RetryPolicy) *Retriever {
	if index == nil || emb == nil {
		panic("vectorindex.Retriever requires index and embedder")
	}
	return &Retriever{index: index, emb: emb, retry: retry.withDefaults()}
}

var _ domain.RetrieverPort = (*Retriever)(nil)

// Retrieve returns up to k matches for question, best first
// k <= 0 means DefaultTopK
func (r *Retriever) Retrieve(ctx context.Context, id videoref.ID, question string, k int) ([]domain.Match, error) {
	if k <= 0 {
		k = domain.DefaultTopK
	}
	vecs, err := r.emb.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, perr.Newf(perr.ErrorCodeUnknown, "embedder returned %d vectors for one question", len(vecs))
	}

	ms, err := read(ctx, r.retry, "index query", func(ctx context.Context) ([]domain.Match, error) {
		return r.index.Query(ctx, id, vecs[0], k)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Score > ms[j].Score })
	if len(ms) > k {
		ms = ms[:k]
	}
	return ms, nil
}

// Prober exposes index stats for a video
type Prober struct{ p domain.Prober }

// NewProber wraps a domain.Prober
func NewProber(p domain.Prober) *Prober { return &Prober{p: p} }

// Stats returns what the index holds for id
func (p *Prober) Stats(ctx context.Context, id videoref.ID) (domain.Stats, error) {
	return p.p.Stats(ctx, id)
}
