package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/testkit"
	asklog "ytchat/internal/services/asklog/domain"
	"ytchat/internal/services/rag/domain"
	vidx "ytchat/internal/services/vectorindex/domain"
	"ytchat/internal/services/vectorindex/repo"
	vsvc "ytchat/internal/services/vectorindex/service"
)

const watchURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

var stampRe = regexp.MustCompile(`\d+:\d{2}`)

type fakeTranscripts struct {
	segs  []transcript.Segment
	err   error
	calls int
}

func (f *fakeTranscripts) Fetch(context.Context, videoref.ID) ([]transcript.Segment, error) {
	f.calls++
	return f.segs, f.err
}

type vowelEmbedder struct{}

func (vowelEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		t = strings.ToLower(t)
		out[i] = []float32{
			float32(strings.Count(t, "a")) + 0.1,
			float32(strings.Count(t, "e")) + 0.1,
			float32(strings.Count(t, "o")) + 0.1,
		}
	}
	return out, nil
}

// countingIndex counts rows written and queries run against the shared memory index
type countingIndex struct {
	vidx.Index
	mu      sync.Mutex
	written int
	queries int
}

func (c *countingIndex) Upsert(ctx context.Context, docs []vidx.Document) (int, error) {
	n, err := c.Index.Upsert(ctx, docs)
	c.mu.Lock()
	c.written += n
	c.mu.Unlock()
	return n, err
}

func (c *countingIndex) Query(ctx context.Context, id videoref.ID, vec []float32, k int) ([]vidx.Match, error) {
	c.mu.Lock()
	c.queries++
	c.mu.Unlock()
	return c.Index.Query(ctx, id, vec, k)
}

type fakeGenerator struct {
	prompts []string
	answer  string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, p string) (string, error) {
	g.prompts = append(g.prompts, p)
	return g.answer, g.err
}

type memLog struct {
	recs []asklog.Interaction
	err  error
}

func (l *memLog) Record(_ context.Context, in asklog.Interaction) error {
	l.recs = append(l.recs, in)
	return l.err
}

type harness struct {
	tr  *fakeTranscripts
	idx *countingIndex
	gen *fakeGenerator
	log *memLog
	svc *Svc
}

func newHarness(t *testing.T, segs []transcript.Segment, trErr error) *harness {
	t.Helper()
	mem := repo.NewMemory()
	h := &harness{
		tr:  &fakeTranscripts{segs: segs, err: trErr},
		idx: &countingIndex{Index: mem},
		gen: &fakeGenerator{answer: "The host talks about bananas at [0:05 - 0:10]."},
		log: &memLog{},
	}
	emb := vowelEmbedder{}
	h.svc = New(Deps{
		Transcripts: h.tr,
		Guard:       vsvc.NewGuard(h.idx, mem, emb, vsvc.GuardConfig{}),
		Retriever:   vsvc.NewRetriever(h.idx, emb, vsvc.RetryPolicy{}),
		Generator:   h.gen,
		Log:         h.log,
	}, Config{})
	return h
}

var talk = []transcript.Segment{
	{Text: "hello everyone and welcome", Start: 0, Duration: 5},
	{Text: "today we eat bananas and papayas", Start: 5, Duration: 5},
	{Text: "oranges go on the other tray", Start: 10, Duration: 4},
	{Text: "the end, see you soon", Start: 65, Duration: 3},
	{Text: "one more note on cocoa", Start: 70, Duration: 2},
	{Text: "bye", Start: 3600, Duration: 1},
}

func TestAnswer_NoEnglishCaptions(t *testing.T) {
	h := newHarness(t, nil, domain.ErrNoTranscript)

	res, err := h.svc.AnswerFromYouTube(context.Background(), domain.Input{YouTubeURL: watchURL, Question: "what is said?"})
	if err != nil {
		t.Fatalf("AnswerFromYouTube: %v", err)
	}
	if res.Status != domain.StatusNoEnglishTranscript || res.Message != domain.NoTranscriptMessage {
		t.Fatalf("result = %+v", res)
	}
	if res.Answered() {
		t.Fatalf("status result must not count as answered")
	}
	if h.idx.written != 0 || h.idx.queries != 0 || len(h.gen.prompts) != 0 {
		t.Fatalf("no index or model work expected, got written=%d queries=%d prompts=%d", h.idx.written, h.idx.queries, len(h.gen.prompts))
	}
	if len(h.log.recs) != 1 || h.log.recs[0].Mode != asklog.ModeNoText {
		t.Fatalf("interaction log = %+v", h.log.recs)
	}
}

func TestAnswer_FirstThenSecondQuestion(t *testing.T) {
	h := newHarness(t, talk, nil)
	ctx := context.Background()

	res, err := h.svc.AnswerFromYouTube(ctx, domain.Input{YouTubeURL: watchURL, Question: "What do they eat?"})
	if err != nil {
		t.Fatalf("first ask: %v", err)
	}
	if res.VideoID != "dQw4w9WgXcQ" || res.Question != "What do they eat?" {
		t.Fatalf("result = %+v", res)
	}
	if !stampRe.MatchString(res.Answer) {
		t.Fatalf("answer has no m:ss token: %q", res.Answer)
	}
	if h.idx.written != len(talk) || h.idx.queries != 1 {
		t.Fatalf("after first ask written=%d queries=%d", h.idx.written, h.idx.queries)
	}

	p := h.gen.prompts[0]
	testkit.MustContain(t, p, "Context:")
	testkit.MustContain(t, p, "[0:05 - 0:10] today we eat bananas and papayas")
	testkit.MustContain(t, p, "What do they eat?")
	if blocks := strings.Count(p, "\n["); blocks != vidx.DefaultTopK {
		t.Fatalf("prompt carries %d context blocks, want %d", blocks, vidx.DefaultTopK)
	}

	if _, err := h.svc.AnswerFromYouTube(ctx, domain.Input{
		YouTubeURL:  "https://youtu.be/dQw4w9WgXcQ",
		Question:    "And after that?",
		ChatHistory: []domain.Turn{{Role: "user", Text: "What do they eat?"}, {Role: "assistant", Text: res.Answer}},
	}); err != nil {
		t.Fatalf("second ask: %v", err)
	}
	if h.idx.written != len(talk) {
		t.Fatalf("second ask wrote %d more rows", h.idx.written-len(talk))
	}
	if h.idx.queries != 2 {
		t.Fatalf("second ask should retrieve again, queries=%d", h.idx.queries)
	}
	testkit.MustContain(t, h.gen.prompts[1], "User: What do they eat?")
	testkit.MustContain(t, h.gen.prompts[1], "Assistant: The host talks about bananas")

	if len(h.log.recs) != 2 || h.log.recs[0].Ingested != len(talk) || h.log.recs[1].Ingested != 0 {
		t.Fatalf("interaction log = %+v", h.log.recs)
	}
	if h.log.recs[0].Retrieved != vidx.DefaultTopK || h.log.recs[0].Mode != "qa" {
		t.Fatalf("first record = %+v", h.log.recs[0])
	}
}

func TestAnswer_SummaryMode(t *testing.T) {
	h := newHarness(t, talk, nil)
	h.gen.answer = "Intro at 0:00, fruit at 0:05."

	res, err := h.svc.AnswerFromYouTube(context.Background(), domain.Input{YouTubeURL: watchURL, Question: "  Give me a SUMMARY  "})
	if err != nil {
		t.Fatalf("AnswerFromYouTube: %v", err)
	}
	if res.Question != "Summarize this video" || res.Answer != h.gen.answer {
		t.Fatalf("result = %+v", res)
	}
	if h.idx.written != 0 || h.idx.queries != 0 {
		t.Fatalf("summary must not touch the index, written=%d queries=%d", h.idx.written, h.idx.queries)
	}
	p := h.gen.prompts[0]
	testkit.MustContain(t, p, "[0:00 - 0:05] hello everyone and welcome")
	testkit.MustContain(t, p, "[60:00 - 60:01] bye")
	if h.log.recs[0].Mode != "summary" {
		t.Fatalf("mode = %q", h.log.recs[0].Mode)
	}
}

func TestAnswer_InvalidURL(t *testing.T) {
	h := newHarness(t, talk, nil)
	_, err := h.svc.AnswerFromYouTube(context.Background(), domain.Input{YouTubeURL: "https://vimeo.com/123", Question: "q"})
	if !errors.Is(err, videoref.ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}
	if h.tr.calls != 0 {
		t.Fatalf("transcripts should not be fetched for a bad url")
	}
}

func TestAnswer_UpstreamErrorsPropagate(t *testing.T) {
	h := newHarness(t, nil, perr.Unavailablef("captions down"))
	if _, err := h.svc.AnswerFromYouTube(context.Background(), domain.Input{YouTubeURL: watchURL, Question: "q"}); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("err = %v", err)
	}

	h = newHarness(t, talk, nil)
	h.gen.err = perr.Timeoutf("chat timed out")
	if _, err := h.svc.AnswerFromYouTube(context.Background(), domain.Input{YouTubeURL: watchURL, Question: "q"}); perr.CodeOf(err) != perr.ErrorCodeTimeout {
		t.Fatalf("err = %v", err)
	}
	if len(h.log.recs) != 0 {
		t.Fatalf("failed requests are not logged")
	}
}

func TestAnswer_LogFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, talk, nil)
	h.log.err = errors.New("clickhouse down")
	if _, err := h.svc.AnswerFromYouTube(context.Background(), domain.Input{YouTubeURL: watchURL, Question: "q"}); err != nil {
		t.Fatalf("AnswerFromYouTube: %v", err)
	}
}

func TestNew_RequiresPorts(t *testing.T) {
	testkit.MustPanic(t, func() { New(Deps{}, Config{}) })
}
