package persona

import (
	"strings"
	"testing"
)

func TestApology(t *testing.T) {
	for i := 0; i < 20; i++ {
		if Apology(false) == "" {
			t.Fatal("generic apology must not be empty")
		}
	}
	if got := Apology(true); got != quotaApology {
		t.Errorf("quota apology = %q", got)
	}
}

func TestApology_NeverLeaksErrorText(t *testing.T) {
	// The apology lines are the worst case the user ever sees; none of them
	// may read like a technical error.
	lines := append([]string{quotaApology}, apologies...)
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, forbidden := range []string{"error", "timeout", "http", "api"} {
			if strings.Contains(lower, forbidden) {
				t.Errorf("apology %q contains %q", line, forbidden)
			}
		}
	}
}

func TestNudge(t *testing.T) {
	for i := 0; i < 20; i++ {
		line := Nudge()
		found := false
		for _, n := range nudges {
			if line == n {
				found = true
			}
		}
		if !found {
			t.Fatalf("Nudge() = %q not in the nudge set", line)
		}
	}
}
