package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, InitialDelay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("disk busy")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	stillFailing := errors.New("still failing")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 4, InitialDelay: time.Millisecond}, func() error {
		calls++
		return stillFailing
	})
	if !errors.Is(err, stillFailing) {
		t.Fatalf("expected the last attempt's error, got %v", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want the full budget of 4", calls)
	}
}

func TestDo_SuccessSkipsBackoff(t *testing.T) {
	start := time.Now()
	err := Do(context.Background(), Config{MaxAttempts: 5, InitialDelay: time.Second}, func() error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first-try success waited %v", elapsed)
	}
}

func TestDo_CancelCutsWaitShort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	writeErr := errors.New("write failed")
	calls := 0

	start := time.Now()
	err := Do(ctx, Config{MaxAttempts: 3, InitialDelay: time.Minute}, func() error {
		calls++
		cancel()
		return writeErr
	})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancellation did not cut the wait short: %v", elapsed)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no attempt after cancellation)", calls)
	}
	if !errors.Is(err, context.Canceled) || !errors.Is(err, writeErr) {
		t.Errorf("error must carry both causes, got %v", err)
	}
}

func TestDo_ZeroConfigRunsOnce(t *testing.T) {
	calls := 0
	if err := Do(context.Background(), Config{}, func() error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
