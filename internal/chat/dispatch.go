package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/companionkit/mira/internal/llm"
)

// DefaultAttemptTimeout bounds each provider attempt.
const DefaultAttemptTimeout = 15 * time.Second

// errAttemptTimeout marks an attempt that exceeded its deadline. It stays
// internal to the dispatcher; callers only ever see AllFailedError.
var errAttemptTimeout = errors.New("provider attempt timed out")

// AttemptError records the outcome of one failed provider attempt.
type AttemptError struct {
	Provider string
	Err      error
	TimedOut bool
}

// AllFailedError is returned by Generate when every provider in the fallback
// chain was exhausted without producing text. Quota is true when at least one
// attempt failed on quota or rate-limit exhaustion, so the caller can pick a
// more specific persona-voiced apology. It is never surfaced raw to the user.
type AllFailedError struct {
	Quota    bool
	Attempts []AttemptError
}

func (e *AllFailedError) Error() string {
	names := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		names = append(names, a.Provider)
	}
	return fmt.Sprintf("all providers failed (%s)", strings.Join(names, ", "))
}

// Dispatcher invokes a ranked list of providers with a hard per-attempt
// deadline and ordered fallback. Attempts run sequentially, one in flight at
// a time: correctness matters more than shaving latency, and racing several
// billable providers in parallel is undesirable.
type Dispatcher struct {
	Providers []llm.Provider
	Timeout   time.Duration
	MaxTokens int
	Logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given provider chain.
func NewDispatcher(providers []llm.Provider, timeout time.Duration, maxTokens int, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{Providers: providers, Timeout: timeout, MaxTokens: maxTokens, Logger: logger}
}

// Generate tries each provider in order until one returns non-empty text
// within the deadline. The first success wins; timeouts and provider errors
// advance the chain. When the chain is exhausted it returns *AllFailedError,
// never a raw provider error. A cancelled caller context is the exception:
// it is returned as-is, since no one is waiting for a fallback.
func (d *Dispatcher) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	failure := &AllFailedError{}

	for _, p := range d.Providers {
		// Caller gone is not a provider failure; stop instead of burning
		// the remaining providers against a dead context.
		if err := ctx.Err(); err != nil {
			return "", err
		}

		start := time.Now()
		text, err := d.attempt(ctx, p, messages)
		elapsed := time.Since(start)

		if err == nil && strings.TrimSpace(text) != "" {
			d.Logger.Debug("dispatch: provider succeeded",
				"provider", p.Name(), "elapsed", elapsed)
			return text, nil
		}

		if err == nil {
			err = errors.New("provider returned empty text")
		}

		attempt := AttemptError{
			Provider: p.Name(),
			Err:      err,
			TimedOut: errors.Is(err, errAttemptTimeout),
		}
		if llm.IsQuota(err) {
			failure.Quota = true
		}
		failure.Attempts = append(failure.Attempts, attempt)

		d.Logger.Warn("dispatch: provider attempt failed, advancing",
			"provider", p.Name(), "elapsed", elapsed,
			"timed_out", attempt.TimedOut, "quota", llm.IsQuota(err), "err", err)
	}

	return "", failure
}

// attempt runs one provider call on its own goroutine so the caller is never
// blocked past the deadline. On timeout the in-flight call is abandoned: the
// underlying request may run to completion, but its result is discarded.
func (d *Dispatcher) attempt(ctx context.Context, p llm.Provider, messages []llm.Message) (string, error) {
	actx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		text, err := p.Complete(actx, llm.Request{Messages: messages, MaxTokens: d.MaxTokens})
		ch <- result{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && actx.Err() != nil {
			return "", fmt.Errorf("%s: %w", p.Name(), errAttemptTimeout)
		}
		return r.text, r.err
	case <-actx.Done():
		return "", fmt.Errorf("%s: %w", p.Name(), errAttemptTimeout)
	}
}
