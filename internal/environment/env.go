// Package environment reads typed overrides from the process environment.
//
// Configuration here is defaults-first: every option carries a built-in
// value and the environment may override it. Each helper therefore takes
// the fallback alongside the variable name and returns it when the variable
// is unset, empty, or fails to parse — a bad override degrades to the
// default instead of aborting startup.
package environment

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StringOr returns the named variable, or fallback when unset or empty.
func StringOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// BoolOr parses the named variable in strconv.ParseBool syntax
// ("1", "t", "true", "0", "f", "false").
func BoolOr(name string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return b
}

// IntOr parses the named variable as a base-10 integer.
func IntOr(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return n
}

// DurationOr parses the named variable in time.ParseDuration syntax
// ("15s", "3m", "1h30m").
func DurationOr(name string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return d
}

// StringSliceOr splits the named variable on commas, trimming whitespace
// and dropping empty elements, so "google, openai," reads as two entries.
// The fallback is returned when the variable is unset or nothing survives
// the trim.
func StringSliceOr(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
