// Package service implements the ask orchestration
package service

import (
	"context"
	"errors"
	"time"

	"ytchat/internal/core/intent"
	"ytchat/internal/core/prompt"
	"ytchat/internal/core/videoref"
	"ytchat/internal/platform/logger"
	asklog "ytchat/internal/services/asklog/domain"
	"ytchat/internal/services/rag/domain"
	vidx "ytchat/internal/services/vectorindex/domain"
)

// Deps are the capabilities the orchestrator is built from
type Deps struct {
	Transcripts domain.Transcripts
	Guard       domain.Guard
	Retriever   domain.Retriever
	Generator   domain.Generator
	// Log is optional
	Log domain.InteractionLog
}

// Config tunes the orchestrator
type Config struct {
	// TopK segments are retrieved per question, default 4
	TopK int
}

// Service is the ask orchestrator
type Service interface{ domain.ServicePort }

// Svc implements Service
type Svc struct {
	d   Deps
	cfg Config
	now func() time.Time
}

// New wires the orchestrator, all Deps but Log are required
func New(d Deps, cfg Config) *Svc {
	if d.Transcripts == nil || d.Guard == nil || d.Retriever == nil || d.Generator == nil {
		panic("rag.Service requires transcripts, guard, retriever and generator")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = vidx.DefaultTopK
	}
	return &Svc{d: d, cfg: cfg, now: time.Now}
}

// AnswerFromYouTube answers a question about the video behind in.YouTubeURL
//
// invalid urls fail with videoref.ErrInvalidURL; a video without English
// captions yields the NO_ENGLISH_TRANSCRIPT result and a nil error
func (s *Svc) AnswerFromYouTube(ctx context.Context, in domain.Input) (domain.Result, error) {
	start := s.now()
	req := intent.Classify(in.Question)

	id, err := videoref.Resolve(in.YouTubeURL)
	if err != nil {
		return domain.Result{}, err
	}
	ctx = logger.WithVideo(ctx, id.String())
	log := logger.C(ctx)

	rec := asklog.Interaction{VideoID: id.String(), Mode: req.Kind.String(), Question: req.Text}

	segs, err := s.d.Transcripts.Fetch(ctx, id)
	if errors.Is(err, domain.ErrNoTranscript) {
		log.Info().Msg("no english transcript")
		rec.Mode = asklog.ModeNoText
		s.record(ctx, rec, start)
		return domain.NoTranscript(), nil
	}
	if err != nil {
		return domain.Result{}, err
	}

	if req.IsSummary() {
		answer, err := s.d.Generator.Generate(ctx, prompt.Summary(segs))
		if err != nil {
			return domain.Result{}, err
		}
		rec.AnswerChars = len(answer)
		s.record(ctx, rec, start)
		return domain.Result{VideoID: id.String(), Question: intent.SummaryQuestion, Answer: answer}, nil
	}

	ingested, err := s.d.Guard.Ingest(ctx, id, segs)
	if err != nil {
		return domain.Result{}, err
	}
	matches, err := s.d.Retriever.Retrieve(ctx, id, req.Text, s.cfg.TopK)
	if err != nil {
		return domain.Result{}, err
	}
	answer, err := s.d.Generator.Generate(ctx, prompt.QA(req.Text, vidx.Segments(matches), in.ChatHistory))
	if err != nil {
		return domain.Result{}, err
	}

	rec.AnswerChars = len(answer)
	rec.Retrieved = len(matches)
	rec.Ingested = ingested
	s.record(ctx, rec, start)

	log.Debug().
		Int("segments", len(segs)).
		Int("ingested", ingested).
		Int("retrieved", len(matches)).
		Msg("question answered")
	return domain.Result{VideoID: id.String(), Question: in.Question, Answer: answer}, nil
}

// record appends to the interaction log; failures are logged only
func (s *Svc) record(ctx context.Context, rec asklog.Interaction, start time.Time) {
	if s.d.Log == nil {
		return
	}
	rec.At = s.now()
	rec.Latency = rec.At.Sub(start)
	if err := s.d.Log.Record(ctx, rec); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("interaction log write failed")
	}
}
