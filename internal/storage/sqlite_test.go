package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/veritas/internal/models"
)

func TestSQLiteStore_Transcript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transcripts.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	turns := []models.Turn{
		{Question: "What is the refund window?", Answer: "30 days."},
		{Question: "And for damaged goods?", Answer: "The same."},
	}
	for i, turn := range turns {
		if err := store.AppendTurn(ctx, "s1", i+1, turn); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.AppendTurn(ctx, "s2", 1, models.Turn{Question: "hi", Answer: "hello"}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Transcript(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	for i, rec := range got {
		if rec.Seq != i+1 || rec.Turn != turns[i] || rec.SessionID != "s1" {
			t.Errorf("record %d = %+v", i, rec)
		}
		if rec.CreatedAt.IsZero() {
			t.Errorf("record %d: CreatedAt not set", i)
		}
	}

	if n, _ := store.CountSessions(ctx); n != 2 {
		t.Errorf("CountSessions = %d, want 2", n)
	}
	if n, _ := store.CountTurns(ctx); n != 3 {
		t.Errorf("CountTurns = %d, want 3", n)
	}

	none, err := store.Transcript(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("unknown session: %v, %v", none, err)
	}
}

func TestSQLiteStore_duplicateSeq(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "t.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	if err := store.AppendTurn(ctx, "s", 1, models.Turn{Question: "q", Answer: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendTurn(ctx, "s", 1, models.Turn{Question: "q", Answer: "a"}); err == nil {
		t.Error("expected error for duplicate seq")
	}
}

func TestSQLiteStore_reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AppendTurn(context.Background(), "s", 1, models.Turn{Question: "q", Answer: "a"}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if n, _ := store.CountTurns(context.Background()); n != 1 {
		t.Errorf("CountTurns after reopen = %d, want 1", n)
	}
}

func TestOpen(t *testing.T) {
	store, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(NopStore); !ok {
		t.Errorf("Open(\"\") = %T, want NopStore", store)
	}
	if err := store.AppendTurn(context.Background(), "s", 1, models.Turn{}); err != nil {
		t.Error(err)
	}

	store, err = Open(filepath.Join(t.TempDir(), "t.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("got %T, want *SQLiteStore", store)
	}
}
