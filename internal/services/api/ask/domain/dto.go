// Package domain holds DTOs for the ask endpoint
package domain

import "ytchat/internal/core/prompt"

// AskInput is the ask request body
type AskInput struct {
	YouTubeURL  string        `json:"youtube_url" validate:"required,max=2048" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Question    string        `json:"question" validate:"required,notblank,max=4000" example:"What does the speaker say about pricing?"`
	ChatHistory []prompt.Turn `json:"chat_history,omitempty" validate:"omitempty,max=50,dive"`
}
