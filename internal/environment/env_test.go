package environment

import (
	"testing"
	"time"
)

func TestStringOr(t *testing.T) {
	t.Setenv("MIRA_STORE_KIND", "sqlite")
	t.Setenv("MIRA_BLANK", "")

	if got := StringOr("MIRA_STORE_KIND", "json"); got != "sqlite" {
		t.Errorf("set variable: got %q", got)
	}
	if got := StringOr("MIRA_BLANK", "json"); got != "json" {
		t.Errorf("empty variable must fall back: got %q", got)
	}
	if got := StringOr("MIRA_NEVER_SET", "json"); got != "json" {
		t.Errorf("unset variable must fall back: got %q", got)
	}
}

func TestBoolOr(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{"true", "true", false, true},
		{"numeric false", "0", true, false},
		{"short form", "t", false, true},
		{"garbage falls back", "ligado", false, false},
		{"empty falls back", "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MIRA_PERSISTENCE", tt.value)
			if got := BoolOr("MIRA_PERSISTENCE", tt.fallback); got != tt.want {
				t.Errorf("BoolOr(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestIntOr(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int
		want     int
	}{
		{"plain", "30", 15, 30},
		{"negative", "-2", 15, -2},
		{"not a number falls back", "quinze", 15, 15},
		{"float falls back", "1.5", 15, 15},
		{"empty falls back", "", 15, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MIRA_TIMEOUT_SECONDS", tt.value)
			if got := IntOr("MIRA_TIMEOUT_SECONDS", tt.fallback); got != tt.want {
				t.Errorf("IntOr(%q, %d) = %d, want %d", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestDurationOr(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback time.Duration
		want     time.Duration
	}{
		{"minutes", "3m", time.Minute, 3 * time.Minute},
		{"compound", "1h30m", time.Minute, 90 * time.Minute},
		{"bare number falls back", "180", time.Minute, time.Minute},
		{"empty falls back", "", time.Minute, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MIRA_IDLE_NUDGE_AFTER", tt.value)
			if got := DurationOr("MIRA_IDLE_NUDGE_AFTER", tt.fallback); got != tt.want {
				t.Errorf("DurationOr(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestStringSliceOr(t *testing.T) {
	fallback := []string{"google", "openai"}
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "openai", []string{"openai"}},
		{"two entries with spaces", "google, openai", []string{"google", "openai"}},
		{"trailing comma dropped", "openai,", []string{"openai"}},
		{"only commas falls back", ", ,", fallback},
		{"empty falls back", "", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MIRA_PROVIDERS", tt.value)
			got := StringSliceOr("MIRA_PROVIDERS", fallback)
			if len(got) != len(tt.want) {
				t.Fatalf("StringSliceOr(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("element %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
