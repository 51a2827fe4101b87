package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestSQLite(t *testing.T, path, session string) *SQLite {
	t.Helper()
	store, err := NewSQLite(path, session)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_RoundTripAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mira.db")
	ctx := context.Background()

	store := openTestSQLite(t, path, "s1")
	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openTestSQLite(t, path, "s1")
	records, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i, r := range records {
		if r.Question != fmt.Sprintf("q%d", i) {
			t.Errorf("record %d out of order: %+v", i, r)
		}
	}
}

func TestSQLite_SessionPartitioning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mira.db")
	ctx := context.Background()

	s1 := openTestSQLite(t, path, "s1")
	s2 := openTestSQLite(t, path, "s2")

	if err := s1.Append(ctx, "pergunta de s1", "resposta"); err != nil {
		t.Fatalf("Append s1: %v", err)
	}
	if err := s2.Append(ctx, "pergunta de s2", "resposta"); err != nil {
		t.Fatalf("Append s2: %v", err)
	}

	records, err := s1.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll s1: %v", err)
	}
	if len(records) != 1 || records[0].Question != "pergunta de s1" {
		t.Errorf("s1 sees foreign records: %+v", records)
	}
}

func TestSQLite_EmptySession(t *testing.T) {
	store := openTestSQLite(t, filepath.Join(t.TempDir(), "mira.db"), "empty")
	records, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
