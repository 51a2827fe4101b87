package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/companionkit/mira/internal/llm"
)

// stubSummarizer records invocations and returns a fixed summary or error.
type stubSummarizer struct {
	summary string
	err     error
	calls   int
	seen    []Turn
}

func (s *stubSummarizer) Summarize(_ context.Context, turns []Turn) (string, error) {
	s.calls++
	s.seen = turns
	return s.summary, s.err
}

func stateWithTurns(n int) *State {
	st := NewState("oi", "idle")
	st.Turns = st.Turns[:0]
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAgent
		}
		st.Append(role, fmt.Sprintf("turn %d", i))
	}
	return st
}

func TestWindow_BelowCeilingVerbatim(t *testing.T) {
	sum := &stubSummarizer{summary: "should not be used"}
	w := NewWindow("persona", 14, 24, sum, nil)
	st := stateWithTurns(20)

	msgs := w.BuildPrompt(context.Background(), st, "nova mensagem")

	if sum.calls != 0 {
		t.Fatalf("summarizer invoked below ceiling (%d calls)", sum.calls)
	}
	// persona + 20 verbatim turns + new user turn
	if len(msgs) != 22 {
		t.Fatalf("expected 22 messages, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem || msgs[0].Content != "persona" {
		t.Errorf("first message must be the persona template, got %+v", msgs[0])
	}
	for i := 0; i < 20; i++ {
		if msgs[i+1].Content != fmt.Sprintf("turn %d", i) {
			t.Fatalf("turn %d out of order: %q", i, msgs[i+1].Content)
		}
	}
	if last := msgs[len(msgs)-1]; last.Role != llm.RoleUser || last.Content != "nova mensagem" {
		t.Errorf("last message must be the new user turn, got %+v", last)
	}
}

func TestWindow_CompactsAboveCeiling(t *testing.T) {
	sum := &stubSummarizer{summary: "vocês falaram sobre o dia dele"}
	w := NewWindow("persona", 5, 10, sum, nil)
	st := stateWithTurns(12)

	msgs := w.BuildPrompt(context.Background(), st, "oi de novo")

	if sum.calls != 1 {
		t.Fatalf("expected 1 summarization pass, got %d", sum.calls)
	}
	if len(sum.seen) != 7 {
		t.Errorf("expected 7 discarded turns handed to summarizer, got %d", len(sum.seen))
	}

	// State was compacted: 1 summary turn + 5 recent turns.
	if len(st.Turns) != 6 {
		t.Fatalf("expected compacted state of 6 turns, got %d", len(st.Turns))
	}
	if st.Turns[0].Role != RoleSystem || !strings.Contains(st.Turns[0].Text, sum.summary) {
		t.Errorf("first turn must be the summary, got %+v", st.Turns[0])
	}

	// Prompt: persona + summary + 5 verbatim + user.
	if len(msgs) != 8 {
		t.Fatalf("expected 8 messages, got %d", len(msgs))
	}
	summaries := 0
	for _, m := range msgs {
		if strings.Contains(m.Content, sum.summary) {
			summaries++
		}
	}
	if summaries != 1 {
		t.Errorf("expected exactly one summary message, got %d", summaries)
	}
	for i := 0; i < 5; i++ {
		want := fmt.Sprintf("turn %d", 7+i)
		if msgs[2+i].Content != want {
			t.Errorf("verbatim turn %d = %q, want %q", i, msgs[2+i].Content, want)
		}
	}

	// A follow-up call below the ceiling must not re-summarize.
	_ = w.BuildPrompt(context.Background(), st, "mais uma")
	if sum.calls != 1 {
		t.Errorf("compaction re-ran on a compacted state (%d calls)", sum.calls)
	}
}

func TestWindow_SummarizationFailureTruncates(t *testing.T) {
	sum := &stubSummarizer{err: errors.New("provider down")}
	w := NewWindow("persona", 5, 10, sum, nil)
	st := stateWithTurns(12)

	msgs := w.BuildPrompt(context.Background(), st, "oi")

	// Hard truncation: exactly the most recent K turns, no summary turn.
	if len(st.Turns) != 5 {
		t.Fatalf("expected 5 turns after truncation, got %d", len(st.Turns))
	}
	for _, turn := range st.Turns {
		if turn.Role == RoleSystem {
			t.Errorf("no summary turn expected after failed summarization, got %q", turn.Text)
		}
	}
	// persona + 5 verbatim + user
	if len(msgs) != 7 {
		t.Fatalf("expected 7 messages, got %d", len(msgs))
	}
}

func TestWindow_PromptSizeBounded(t *testing.T) {
	sum := &stubSummarizer{summary: "resumo"}
	w := NewWindow("persona", 5, 10, sum, nil)

	for _, n := range []int{1, 5, 10, 11, 30, 100} {
		st := stateWithTurns(n)
		msgs := w.BuildPrompt(context.Background(), st, "oi")
		// Never more than persona + ceiling turns + user below the ceiling,
		// and persona + summary + K + user above it.
		bound := w.Ceiling + 2
		if n > w.Ceiling {
			bound = w.K + 3
		}
		if len(msgs) > bound {
			t.Errorf("n=%d: prompt has %d messages, bound %d", n, len(msgs), bound)
		}
	}
}
