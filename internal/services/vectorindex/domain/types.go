// Package domain holds the per video vector index types and contracts
package domain

import (
	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
)

// DefaultTopK is the number of segments retrieved per question
const DefaultTopK = 4

// Document is one embedded caption segment
// (VideoID, Seq) is its deterministic key, Seq is the segment position
type Document struct {
	VideoID   videoref.ID
	Seq       int
	Segment   transcript.Segment
	Embedding []float32
}

// Match is a retrieved segment, Score is cosine similarity
type Match struct {
	Seq     int
	Segment transcript.Segment
	Score   float64
}

// Lease states stored on video_ingestions
const (
	StateRunning = "running"
	StateDone    = "done"
)

// Stats describes what the index holds for one video
type Stats struct {
	VideoID  videoref.ID `json:"video_id"`
	Exists   bool        `json:"exists"`
	Segments int         `json:"segments"`
	State    string      `json:"state,omitempty"`
}

// Segments returns the segments of matches in order
func Segments(ms []Match) []transcript.Segment {
	out := make([]transcript.Segment, len(ms))
	for i, m := range ms {
		out[i] = m.Segment
	}
	return out
}
