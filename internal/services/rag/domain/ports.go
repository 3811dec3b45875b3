package domain

import (
	"context"

	asklog "ytchat/internal/services/asklog/domain"
	transcripts "ytchat/internal/services/transcripts/domain"
	vidx "ytchat/internal/services/vectorindex/domain"
)

// ErrNoTranscript is matched to produce the NO_ENGLISH_TRANSCRIPT result
var ErrNoTranscript = transcripts.ErrNoTranscript

// Embedder turns texts into vectors
type Embedder = vidx.Embedder

// Generator produces a completion for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type (
	// Transcripts acquires captions for a video
	Transcripts = transcripts.FetcherPort
	// Guard ingests a video at most once
	Guard = vidx.GuardPort
	// Retriever returns the segments nearest to a question
	Retriever = vidx.RetrieverPort
	// InteractionLog records answered requests
	InteractionLog = asklog.Writer
)

// ServicePort is what the http and cli layers call
type ServicePort interface {
	AnswerFromYouTube(ctx context.Context, in Input) (Result, error)
}
