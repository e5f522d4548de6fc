// Package storage archives completed conversation turns.
package storage

import (
	"context"
	"time"

	"github.com/hyperjump/veritas/internal/models"
)

// TranscriptRecord is one archived turn.
type TranscriptRecord struct {
	SessionID string      `json:"session_id"`
	Seq       int         `json:"seq"`
	Turn      models.Turn `json:"turn"`
	CreatedAt time.Time   `json:"created_at"`
}

// TranscriptStore persists completed turns. It is write-mostly; conversation memory
// lives in the session, not here.
type TranscriptStore interface {
	// AppendTurn records the seq-th turn (1-based) of a session.
	AppendTurn(ctx context.Context, sessionID string, seq int, turn models.Turn) error
	// Transcript returns a session's turns in order.
	Transcript(ctx context.Context, sessionID string) ([]TranscriptRecord, error)

	CountSessions(ctx context.Context) (int64, error)
	CountTurns(ctx context.Context) (int64, error)

	Close() error
}

// NopStore discards everything. Used when no transcript path is configured.
type NopStore struct{}

func (NopStore) AppendTurn(context.Context, string, int, models.Turn) error { return nil }

func (NopStore) Transcript(context.Context, string) ([]TranscriptRecord, error) { return nil, nil }

func (NopStore) CountSessions(context.Context) (int64, error) { return 0, nil }

func (NopStore) CountTurns(context.Context) (int64, error) { return 0, nil }

func (NopStore) Close() error { return nil }

// Open returns a SQLite store at path, or a NopStore when path is empty.
func Open(path string) (TranscriptStore, error) {
	if path == "" {
		return NopStore{}, nil
	}
	return NewSQLiteStore(path)
}
