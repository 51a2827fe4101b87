// Package chat implements the conversation orchestration core: durable turn
// state, deterministic command routing, context-window management, and
// multi-provider dispatch with bounded latency.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// Turn is one message in a conversation. Turns are immutable once recorded
// and are only ever appended.
type Turn struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// State owns the ordered turn sequence for one session, plus the derived
// display state (active media key, transient speaking flag). It is owned
// exclusively by the session for its lifetime and is never persisted; the
// memory log is the durable record.
type State struct {
	ID         string
	Turns      []Turn
	MediaKey   string
	Speaking   bool
	LastActive time.Time
}

// NewState creates the session state seeded with the companion's greeting
// turn and the initial media key.
func NewState(greeting, mediaKey string) *State {
	now := time.Now()
	return &State{
		ID:         uuid.NewString(),
		MediaKey:   mediaKey,
		LastActive: now,
		Turns: []Turn{
			{Role: RoleAgent, Text: greeting, Timestamp: now},
		},
	}
}

// Append records a new turn at the end of the sequence.
func (s *State) Append(role Role, text string) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text, Timestamp: time.Now()})
}

// TurnCount returns the number of recorded turns.
func (s *State) TurnCount() int { return len(s.Turns) }
