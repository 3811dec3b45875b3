package domain

import (
	"context"
	"time"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
)

// Embedder turns texts into vectors, one per input in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is the vector store seen by the guard and the retriever
// the namespace is the video id
type Index interface {
	NamespaceExists(ctx context.Context, id videoref.ID) (bool, error)
	// Upsert inserts docs of one video, existing keys are left untouched
	// the returned count is rows actually written
	Upsert(ctx context.Context, docs []Document) (int, error)
	// Query returns up to k matches ordered by descending similarity
	Query(ctx context.Context, id videoref.ID, vec []float32, k int) ([]Match, error)
}

// Lease serializes ingestion of one video across instances
type Lease interface {
	// Acquire reports whether holder now owns the lease
	// a running lease older than ttl is taken over
	Acquire(ctx context.Context, id videoref.ID, holder string, ttl time.Duration) (bool, error)
	Complete(ctx context.Context, id videoref.ID, holder string, segments int) error
	Release(ctx context.Context, id videoref.ID, holder string) error
}

// Prober reports index contents for one video
type Prober interface {
	Stats(ctx context.Context, id videoref.ID) (Stats, error)
}

// GuardPort ingests a video at most once
type GuardPort interface {
	Ingest(ctx context.Context, id videoref.ID, segs []transcript.Segment) (int, error)
}

// RetrieverPort finds the segments most relevant to a question
type RetrieverPort interface {
	Retrieve(ctx context.Context, id videoref.ID, question string, k int) ([]Match, error)
}
