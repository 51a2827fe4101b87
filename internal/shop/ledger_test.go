package shop

import (
	"errors"
	"testing"
)

func TestEngine_Reward(t *testing.T) {
	e := NewEngine(NewLedger(10), 1)
	e.Reward()
	e.Reward()
	if got := e.Ledger.Balance(); got != 12 {
		t.Errorf("balance = %d, want 12", got)
	}
}

func TestEngine_RewardCustomIncrement(t *testing.T) {
	e := NewEngine(NewLedger(0), 3)
	e.Reward()
	if got := e.Ledger.Balance(); got != 3 {
		t.Errorf("balance = %d, want 3", got)
	}
}

func TestEngine_PurchaseDebitsAndGrants(t *testing.T) {
	e := NewEngine(NewLedger(20), 1)
	item := Item{Name: "VIP", Price: 15, RewardText: "bem-vindo", Entitlement: "vip"}

	if err := e.Purchase(item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Ledger.Balance(); got != 5 {
		t.Errorf("balance = %d, want 5", got)
	}
	if !e.Ledger.Has("vip") {
		t.Error("entitlement not granted")
	}
	if flags := e.Ledger.Entitlements(); len(flags) != 1 || flags[0] != "vip" {
		t.Errorf("entitlements = %v", flags)
	}
}

func TestEngine_PurchaseInsufficientFunds(t *testing.T) {
	e := NewEngine(NewLedger(5), 1)
	item := Item{Name: "Presente", Price: 8, RewardText: "...", Entitlement: "vip"}

	for i := 0; i < 2; i++ { // rejection is idempotent with unchanged balance
		err := e.Purchase(item)
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("attempt %d: expected ErrInsufficientFunds, got %v", i, err)
		}
	}
	if got := e.Ledger.Balance(); got != 5 {
		t.Errorf("balance = %d, want 5 (no mutation on rejection)", got)
	}
	if e.Ledger.Has("vip") {
		t.Error("entitlement granted on rejected purchase")
	}
}

func TestEngine_PurchaseExactBalance(t *testing.T) {
	e := NewEngine(NewLedger(8), 1)
	if err := e.Purchase(Item{Name: "x", Price: 8, RewardText: "."}); err != nil {
		t.Fatalf("purchase at exact balance must succeed: %v", err)
	}
	if got := e.Ledger.Balance(); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}

func TestLedger_NeverNegative(t *testing.T) {
	l := NewLedger(-5)
	if l.Balance() != 0 {
		t.Errorf("negative starting balance must clamp to 0, got %d", l.Balance())
	}
}
