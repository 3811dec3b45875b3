// Package domain holds the interaction log record and its writer port
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Modes recorded per interaction
const (
	ModeQA      = "qa"
	ModeSummary = "summary"
	ModeNoText  = "no_transcript"
)

// Interaction is one answered request, no chat history is stored
type Interaction struct {
	ID          uuid.UUID
	At          time.Time
	VideoID     string
	Mode        string
	Question    string
	AnswerChars int
	Retrieved   int
	Ingested    int
	Latency     time.Duration
}

// Writer appends interactions, callers treat failures as non fatal
type Writer interface {
	Record(ctx context.Context, in Interaction) error
}
