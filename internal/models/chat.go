package models

import (
	"fmt"
	"strings"
)

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Answer is the outcome of one pipeline turn.
type Answer struct {
	Question string   `json:"question"`
	Text     string   `json:"answer"`
	Sources  []*Chunk `json:"sources"`
}

// ChatRequest is the chat boundary input: the new question plus the history the UI is displaying.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
	History   []Turn `json:"history"`
}

// Validate trims the question and rejects empty input.
func (r *ChatRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	if r.Question == "" {
		return fmt.Errorf("question cannot be empty")
	}
	return nil
}

// ChatResponse is the chat boundary output. Input is always empty so the UI clears its box.
type ChatResponse struct {
	SessionID string `json:"session_id,omitempty"`
	History   []Turn `json:"history"`
	Input     string `json:"input"`
	Error     string `json:"error,omitempty"`
}
