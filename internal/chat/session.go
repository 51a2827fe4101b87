package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/companionkit/mira/internal/memory"
	"github.com/companionkit/mira/internal/persona"
	"github.com/companionkit/mira/internal/shop"
)

// ErrEmptyMessage is returned by Handle when the user text is blank after
// trimming.
var ErrEmptyMessage = errors.New("empty message")

// ErrUnknownItem is returned by Purchase when the named item is not in the
// catalog.
var ErrUnknownItem = errors.New("unknown shop item")

// Reply is what the core hands back to the UI collaborator: the text to
// display, an optional media-state signal, and the text to feed to speech
// synthesis.
type Reply struct {
	Text      string `json:"text"`
	MediaKey  string `json:"media,omitempty"`
	AudioText string `json:"audio_text"`
}

// Session ties the core components together for one user session. All state
// is explicit and owned here; nothing is ambient. One user message is fully
// resolved before the next is accepted — the mutex serializes callers that
// arrive concurrently over HTTP.
type Session struct {
	Router     *Router
	Window     *Window
	Dispatcher *Dispatcher
	Engine     *shop.Engine
	Catalog    []shop.Item
	Memory     memory.Log
	IdleAfter  time.Duration
	Logger     *slog.Logger

	mu    sync.Mutex
	state *State
}

// NewSession creates a session seeded with the persona greeting.
func NewSession(router *Router, window *Window, dispatcher *Dispatcher, engine *shop.Engine, catalog []shop.Item, log memory.Log, idleAfter time.Duration, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		Router:     router,
		Window:     window,
		Dispatcher: dispatcher,
		Engine:     engine,
		Catalog:    catalog,
		Memory:     log,
		IdleAfter:  idleAfter,
		Logger:     logger,
		state:      NewState(persona.Greeting, "idle"),
	}
}

// Handle resolves one user message: command routing first, then the provider
// path, then the state/ledger/memory updates. Provider exhaustion is
// converted into a persona-voiced apology here; the conversation stays
// usable and the exchange is still recorded and rewarded.
func (s *Session) Handle(ctx context.Context, text string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	s.state.Speaking = true
	defer func() { s.state.Speaking = false }()
	s.state.LastActive = time.Now()

	var replyText, mediaKey string
	if routed, ok := s.Router.Route(text); ok {
		replyText, mediaKey = routed.Text, routed.MediaKey
		s.Logger.Debug("session: short-circuit", "media", mediaKey)
	} else {
		prompt := s.Window.BuildPrompt(ctx, s.state, text)
		out, err := s.Dispatcher.Generate(ctx, prompt)
		if err != nil {
			// A cancelled caller gets no apology exchange: nothing is
			// appended, persisted, or rewarded for a reply nobody receives.
			if ctx.Err() != nil {
				return Reply{}, err
			}
			quota := false
			var all *AllFailedError
			if errors.As(err, &all) {
				quota = all.Quota
			}
			replyText = persona.Apology(quota)
			s.Logger.Warn("session: provider chain exhausted, using fallback",
				"quota", quota, "err", err)
		} else {
			replyText = out
		}
	}

	if mediaKey != "" {
		s.state.MediaKey = mediaKey
	}
	s.finishExchange(ctx, text, replyText)

	return Reply{Text: replyText, MediaKey: mediaKey, AudioText: replyText}, nil
}

// finishExchange appends the user and agent turns, records the exchange in
// the memory log, and credits the engagement reward. Persistence failure is
// logged and swallowed — it must never abort a delivered response.
func (s *Session) finishExchange(ctx context.Context, question, answer string) {
	s.state.Append(RoleUser, question)
	s.state.Append(RoleAgent, answer)

	if err := s.Memory.Append(ctx, question, answer); err != nil {
		s.Logger.Warn("session: memory persistence failed", "err", err)
	}
	s.Engine.Reward()
}

// Purchase validates the named item against the ledger and, on success,
// applies the full transition bundle: debit, media change, entitlement
// grant, and the thank-you utterance appended as an agent turn. On
// insufficient funds nothing is applied and shop.ErrInsufficientFunds is
// returned for the UI to surface verbatim.
func (s *Session) Purchase(ctx context.Context, name string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var item *shop.Item
	for i := range s.Catalog {
		if s.Catalog[i].Name == name {
			item = &s.Catalog[i]
			break
		}
	}
	if item == nil {
		return Reply{}, ErrUnknownItem
	}

	if err := s.Engine.Purchase(*item); err != nil {
		return Reply{}, err
	}

	if item.MediaKey != "" {
		s.state.MediaKey = item.MediaKey
	}
	s.state.Append(RoleAgent, item.RewardText)
	s.state.LastActive = time.Now()

	if err := s.Memory.Append(ctx, "Comprou:"+item.Name, item.RewardText); err != nil {
		s.Logger.Warn("session: memory persistence failed", "err", err)
	}

	s.Logger.Info("session: purchase applied",
		"item", item.Name, "price", item.Price, "balance", s.Engine.Ledger.Balance())

	return Reply{Text: item.RewardText, MediaKey: item.MediaKey, AudioText: item.RewardText}, nil
}

// IdleNudge returns a re-engagement line when the session has been idle past
// the configured threshold. The second return is false when no nudge is due.
func (s *Session) IdleNudge(now time.Time) (Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.IdleAfter <= 0 || now.Sub(s.state.LastActive) < s.IdleAfter {
		return Reply{}, false
	}

	line := persona.Nudge()
	s.state.Append(RoleAgent, line)
	s.state.LastActive = now
	return Reply{Text: line, AudioText: line}, true
}

// Snapshot reports the displayable session state for the UI collaborator.
type Snapshot struct {
	SessionID    string   `json:"session_id"`
	Balance      int      `json:"balance"`
	Entitlements []string `json:"entitlements"`
	MediaKey     string   `json:"media"`
	Speaking     bool     `json:"speaking"`
	Turns        int      `json:"turns"`
}

// State returns a snapshot of the current session state.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SessionID:    s.state.ID,
		Balance:      s.Engine.Ledger.Balance(),
		Entitlements: s.Engine.Ledger.Entitlements(),
		MediaKey:     s.state.MediaKey,
		Speaking:     s.state.Speaking,
		Turns:        len(s.state.Turns),
	}
}

// TurnCount returns the number of turns recorded so far.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Turns)
}
