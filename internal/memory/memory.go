// Package memory holds the per-session conversation log.
package memory

import (
	"sync"

	"github.com/hyperjump/veritas/internal/models"
)

// Memory is an append-only log of completed turns in arrival order.
// It has no size cap and no eviction.
type Memory struct {
	mu    sync.RWMutex
	turns []models.Turn
}

// New returns an empty Memory.
func New() *Memory {
	return &Memory{}
}

// Append records a completed turn.
func (m *Memory) Append(question, answer string) {
	m.mu.Lock()
	m.turns = append(m.turns, models.Turn{Question: question, Answer: answer})
	m.mu.Unlock()
}

// History returns a copy of all turns, oldest first.
func (m *Memory) History() []models.Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Len returns the number of recorded turns.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}
