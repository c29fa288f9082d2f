// Package storage keeps an append-only JSONL audit trail of completed
// exchanges, separate from the conversation context in the store.
package storage

import "time"

type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	UserID            int64     `json:"user_id"`
	Language          string    `json:"language,omitempty"`
	UserMessage       string    `json:"user_message,omitempty"`
	AssistantResponse string    `json:"assistant_response,omitempty"`
	Model             string    `json:"model,omitempty"`
	TotalTokens       int       `json:"total_tokens,omitempty"`
}

type Recorder interface {
	AppendInteraction(event Event) error
}
