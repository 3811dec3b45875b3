// Package domain holds the ask contracts: input, result and the ports the orchestrator consumes
package domain

import "ytchat/internal/core/prompt"

// Status values for results that carry no answer
const (
	StatusNoEnglishTranscript = "NO_ENGLISH_TRANSCRIPT"
	NoTranscriptMessage       = "No English transcript is available for this video."
)

// Turn is one prior chat message, passed through to the prompt only
type Turn = prompt.Turn

// Input is one ask request
type Input struct {
	YouTubeURL  string
	Question    string
	ChatHistory []Turn
}

// Result is either an answer or a status with a message
type Result struct {
	VideoID  string `json:"video_id,omitempty" example:"dQw4w9WgXcQ"`
	Question string `json:"question,omitempty" example:"What is the main topic?"`
	Answer   string `json:"answer,omitempty" example:"The speaker explains the topic at [1:05 - 1:12]."`

	Status  string `json:"status,omitempty" example:"NO_ENGLISH_TRANSCRIPT"`
	Message string `json:"message,omitempty" example:"No English transcript is available for this video."`
}

// NoTranscript is the result returned when the video has no usable English captions
func NoTranscript() Result {
	return Result{Status: StatusNoEnglishTranscript, Message: NoTranscriptMessage}
}

// Answered reports whether r carries an answer
func (r Result) Answered() bool { return r.Status == "" }
