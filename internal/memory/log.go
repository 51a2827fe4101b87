// Package memory implements the durable conversation record: an append-only
// sequence of question/answer pairs that survives process restarts,
// independent of the in-memory conversation state.
//
// Two stores implement the Log interface: a whole-file JSON store (the
// default, single-session deployment) and a SQLite store for deployments
// that need per-session partitioning. Durability is best-effort — callers
// log and swallow persistence errors rather than failing a conversation turn.
package memory

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Record is one persisted exchange. Records are immutable once written and
// are returned in append order (oldest first); newest-first display ordering
// is a UI concern.
type Record struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// Log is the durable store for conversation records.
type Log interface {
	// Append persists a new record with a wall-clock timestamp.
	Append(ctx context.Context, question, answer string) error
	// LoadAll returns every record in append order (oldest first).
	LoadAll(ctx context.Context) ([]Record, error)
	// Close releases the underlying store.
	Close() error
}

// newRecord stamps a record with a fresh ULID and the current wall-clock
// time. ULIDs sort lexicographically by creation time, which both stores
// rely on for append ordering.
func newRecord(question, answer string) Record {
	return Record{
		ID:        ulid.Make().String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Question:  question,
		Answer:    answer,
	}
}

// Discard is a Log that stores nothing, used when persistence is disabled.
type Discard struct{}

func (Discard) Append(context.Context, string, string) error { return nil }
func (Discard) LoadAll(context.Context) ([]Record, error)    { return nil, nil }
func (Discard) Close() error                                 { return nil }
