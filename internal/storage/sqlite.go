package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/veritas/internal/models"
)

// SQLiteStore implements TranscriptStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create transcript directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_turns_created_at ON turns(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// AppendTurn inserts a turn. Writing the same (session, seq) twice is an error.
func (s *SQLiteStore) AppendTurn(ctx context.Context, sessionID string, seq int, turn models.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, seq, question, answer, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, seq, turn.Question, turn.Answer, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append turn %s/%d: %w", sessionID, seq, err)
	}
	return nil
}

// Transcript returns a session's turns ordered by seq. Unknown sessions yield an empty slice.
func (s *SQLiteStore) Transcript(ctx context.Context, sessionID string) ([]TranscriptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, seq, question, answer, created_at
		 FROM turns WHERE session_id = ? ORDER BY seq`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TranscriptRecord
	for rows.Next() {
		var rec TranscriptRecord
		if err := rows.Scan(&rec.SessionID, &rec.Seq, &rec.Turn.Question, &rec.Turn.Answer, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountSessions returns the number of sessions with at least one archived turn.
func (s *SQLiteStore) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT session_id) FROM turns`).Scan(&n)
	return n, err
}

// CountTurns returns the total number of archived turns.
func (s *SQLiteStore) CountTurns(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
