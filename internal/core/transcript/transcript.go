// Package transcript holds caption segments and their timestamped text rendering
package transcript

import (
	"math"
	"strconv"
	"strings"

	perr "ytchat/internal/platform/errors"
)

// ErrNoTranscript covers disabled captions, no track in the requested
// language and tracks with zero usable segments
var ErrNoTranscript = perr.New(perr.ErrorCodeNotFound, "no transcript available in the requested language")

// Segment is one caption item, Start and Duration are seconds
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End is Start plus Duration
func (s Segment) End() float64 { return s.Start + s.Duration }

// FormatTimestamp renders seconds as m:ss
// minutes are unbounded so an hour renders as 60:00
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	m, s := total/60, total%60

	var b strings.Builder
	b.Grow(8)
	b.WriteString(strconv.FormatInt(m, 10))
	b.WriteByte(':')
	if s < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(s, 10))
	return b.String()
}

// Block renders a segment as "[start - end] text"
func Block(s Segment) string {
	return "[" + FormatTimestamp(s.Start) + " - " + FormatTimestamp(s.End()) + "] " + s.Text
}

// Join renders segments as blocks, one per line, in the given order
func Join(segs []Segment) string {
	if len(segs) == 0 {
		return ""
	}
	lines := make([]string, len(segs))
	for i, s := range segs {
		lines[i] = Block(s)
	}
	return strings.Join(lines, "\n")
}

// Clean trims caption text and folds the embedded newlines that caption
// tracks use for line wrapping. Empty results are dropped
func Clean(segs []Segment) []Segment {
	out := segs[:0:0]
	for _, s := range segs {
		t := strings.Join(strings.Fields(s.Text), " ")
		if t == "" {
			continue
		}
		s.Text = t
		out = append(out, s)
	}
	return out
}
