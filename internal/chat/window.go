package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/companionkit/mira/internal/llm"
)

// Summarizer produces a short synthesis of a span of turns that is about to
// be dropped from the context window. Implemented by DispatchSummarizer; unit
// tests substitute stubs.
type Summarizer interface {
	Summarize(ctx context.Context, turns []Turn) (string, error)
}

// DefaultWindowSize is the number of recent turns sent verbatim to a provider.
const DefaultWindowSize = 14

// DefaultCeiling is the turn count above which older history is compacted
// into a single summary turn.
const DefaultCeiling = 24

// Window bounds the prompt sent to providers: the persona template, at most
// one summary turn, the most recent K turns verbatim, and the new user turn.
//
// When the turn count exceeds Ceiling the discarded span is summarized once
// and replaced in the session state by a single system turn, so the pass is
// not re-run on every call. Summarization is best-effort compaction: when it
// fails, the window falls back to hard truncation and never fails the caller.
type Window struct {
	Persona    string
	K          int
	Ceiling    int
	Summarizer Summarizer
	Logger     *slog.Logger
}

// NewWindow creates a Window with defaults applied for non-positive sizes.
func NewWindow(persona string, k, ceiling int, summarizer Summarizer, logger *slog.Logger) *Window {
	if k <= 0 {
		k = DefaultWindowSize
	}
	if ceiling <= k {
		ceiling = k + DefaultCeiling - DefaultWindowSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{Persona: persona, K: k, Ceiling: ceiling, Summarizer: summarizer, Logger: logger}
}

// BuildPrompt produces the bounded message sequence for a provider call:
// persona system message, the windowed history from state, and the new user
// turn, in chronological order. It may compact state as a side effect but
// never returns an error.
func (w *Window) BuildPrompt(ctx context.Context, state *State, userText string) []llm.Message {
	if len(state.Turns) > w.Ceiling {
		w.compact(ctx, state)
	}

	// Below the ceiling every turn goes out verbatim; compaction above the
	// ceiling reduces the state to at most one summary turn plus K verbatim
	// turns, so the prompt size stays bounded by the ceiling either way.
	turns := state.Turns

	msgs := make([]llm.Message, 0, len(turns)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: w.Persona})
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: roleFor(t.Role), Content: t.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: userText})
	return msgs
}

// compact replaces everything but the most recent K turns with a single
// system turn holding a synthesized summary. On summarization failure the
// discarded span is simply dropped (hard truncation).
func (w *Window) compact(ctx context.Context, state *State) {
	cut := len(state.Turns) - w.K
	discard := state.Turns[:cut]
	keep := state.Turns[cut:]

	if w.Summarizer == nil {
		state.Turns = append([]Turn(nil), keep...)
		return
	}

	summary, err := w.Summarizer.Summarize(ctx, discard)
	if err != nil || strings.TrimSpace(summary) == "" {
		w.Logger.Warn("window: summarization failed, truncating history",
			"discarded", len(discard), "err", err)
		state.Turns = append([]Turn(nil), keep...)
		return
	}

	compacted := make([]Turn, 0, len(keep)+1)
	compacted = append(compacted, Turn{
		Role:      RoleSystem,
		Text:      "Resumo do início da conversa: " + summary,
		Timestamp: discard[len(discard)-1].Timestamp,
	})
	compacted = append(compacted, keep...)
	state.Turns = compacted

	w.Logger.Debug("window: compacted history",
		"discarded", len(discard), "kept", len(keep), "summary_len", len(summary))
}

func roleFor(r Role) llm.Role {
	switch r {
	case RoleAgent:
		return llm.RoleAssistant
	case RoleSystem:
		return llm.RoleSystem
	default:
		return llm.RoleUser
	}
}

// DispatchSummarizer implements Summarizer on top of a Dispatcher, issuing
// one auxiliary provider request per compaction.
type DispatchSummarizer struct {
	Dispatcher *Dispatcher
}

// Summarize asks the provider chain for a short, emotionally toned synthesis
// of the given turns.
func (s *DispatchSummarizer) Summarize(ctx context.Context, turns []Turn) (string, error) {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(t.Role)), t.Text)
	}
	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: "Resuma a conversa abaixo em poucas frases, preservando o tom emocional e os fatos importantes sobre o usuário. Responda apenas com o resumo."},
		{Role: llm.RoleUser, Content: b.String()},
	}
	return s.Dispatcher.Generate(ctx, msgs)
}
