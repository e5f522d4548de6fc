package rag

import (
	"context"
	"errors"
	"fmt"
)

// Turn failure stages. A *TurnError matches its stage with errors.Is.
var (
	ErrEmbedding  = errors.New("embedding failed")
	ErrRetrieval  = errors.New("retrieval failed")
	ErrGeneration = errors.New("generation failed")
)

// ErrEmptyQuestion is returned before any provider call when the question is blank.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// TurnError is a failed turn. Memory is never modified when a turn fails.
type TurnError struct {
	Stage error
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() []error {
	return []error{e.Stage, e.Err}
}

// Retriable reports whether asking the same question again may succeed.
// Retrieval failures (such as a dimension mismatch) and caller cancellation are not retriable.
func (e *TurnError) Retriable() bool {
	if errors.Is(e.Stage, ErrRetrieval) {
		return false
	}
	return !errors.Is(e.Err, context.Canceled)
}
