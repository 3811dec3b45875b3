// Package intent decides whether a question asks for a whole-video summary
//
// Matching is a keyword heuristic over a fixed phrase list. The question is
// folded first (NFKC, case fold, combining marks and format chars removed,
// width fold, whitespace collapsed) and then tested for substring containment
package intent

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Kind tags a Request
type Kind uint8

const (
	// AskQuestion answers a question from retrieved segments
	AskQuestion Kind = iota
	// Summarize summarizes the full transcript
	Summarize
)

// String implements fmt.Stringer
func (k Kind) String() string {
	if k == Summarize {
		return "summary"
	}
	return "qa"
}

// SummaryQuestion is the question echoed back for summary results
const SummaryQuestion = "Summarize this video"

// Request is the classified question
// Text is the caller's question for AskQuestion and SummaryQuestion for Summarize
type Request struct {
	Kind Kind
	Text string
}

// IsSummary reports whether r routes to summary mode
func (r Request) IsSummary() bool { return r.Kind == Summarize }

// Phrases is the canonical summary phrase set, already folded
var Phrases = []string{
	"summarize",
	"summarise",
	"summary",
	"give me a summary",
	"explain the video briefly",
	"what is this video about",
	"tl;dr",
	"tldr",
}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Fold returns the comparison form of s
func Fold(s string) string {
	s = strings.ToValidUTF8(s, "")
	if s == "" {
		return ""
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// Classify maps a raw question to a Request
func Classify(question string) Request {
	if IsSummary(question) {
		return Request{Kind: Summarize, Text: SummaryQuestion}
	}
	return Request{Kind: AskQuestion, Text: question}
}

// IsSummary reports whether question contains any summary phrase
func IsSummary(question string) bool {
	q := Fold(question)
	if q == "" {
		return false
	}
	for _, p := range Phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}
