// Package shop implements the in-app economy: the currency ledger, the
// purchase engine, and the external gift catalog.
package shop

import (
	"errors"
	"sort"
)

// ErrInsufficientFunds is the only core error surfaced verbatim to the UI:
// it is a legitimate business outcome, not a fault. A rejected purchase
// applies no mutation, so retrying with an unchanged balance yields the same
// rejection.
var ErrInsufficientFunds = errors.New("insufficient balance")

// Ledger holds the session's currency balance and entitlement flags.
// The balance is never negative: purchases that would overdraw are rejected,
// not clamped.
type Ledger struct {
	balance      int
	entitlements map[string]struct{}
}

// NewLedger creates a ledger with the given starting balance.
func NewLedger(startingBalance int) *Ledger {
	if startingBalance < 0 {
		startingBalance = 0
	}
	return &Ledger{
		balance:      startingBalance,
		entitlements: make(map[string]struct{}),
	}
}

// Balance returns the current balance.
func (l *Ledger) Balance() int { return l.balance }

// Has reports whether the named entitlement has been granted.
func (l *Ledger) Has(flag string) bool {
	_, ok := l.entitlements[flag]
	return ok
}

// Entitlements returns the granted flags in sorted order.
func (l *Ledger) Entitlements() []string {
	flags := make([]string, 0, len(l.entitlements))
	for f := range l.entitlements {
		flags = append(flags, f)
	}
	sort.Strings(flags)
	return flags
}

// Engine applies economy events to the ledger.
type Engine struct {
	Ledger *Ledger
	// Increment is the engagement reward credited per completed exchange.
	Increment int
}

// NewEngine creates an Engine over the given ledger. A non-positive
// increment defaults to 1.
func NewEngine(ledger *Ledger, increment int) *Engine {
	if increment <= 0 {
		increment = 1
	}
	return &Engine{Ledger: ledger, Increment: increment}
}

// Reward unconditionally credits the engagement increment. It is applied
// after every completed exchange, including command short-circuits and
// provider-failure fallbacks.
func (e *Engine) Reward() {
	e.Ledger.balance += e.Increment
}

// Purchase atomically checks and applies a purchase: the debit and the
// entitlement grant either both happen or neither does. The caller applies
// the item's media transition to the conversation state after a nil return.
func (e *Engine) Purchase(item Item) error {
	if e.Ledger.balance < item.Price {
		return ErrInsufficientFunds
	}
	e.Ledger.balance -= item.Price
	if item.Entitlement != "" {
		e.Ledger.entitlements[item.Entitlement] = struct{}{}
	}
	return nil
}
