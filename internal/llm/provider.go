// Package llm defines the LLM provider interface and common message types
// used by the conversation core.
//
// The dispatcher calls Complete on each configured provider in fallback order
// until one returns usable text. Providers normalize vendor-specific response
// shapes to plain text at this boundary; provider-specific authentication and
// client setup stay inside each adapter.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Role is the role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is the input to a single LLM inference call.
type Request struct {
	Messages  []Message
	MaxTokens int
}

// Provider is the interface that all LLM backends must implement.
type Provider interface {
	// Name identifies the provider in logs and failure reports.
	Name() string
	// Complete sends the conversation to the LLM and returns the generated
	// text. The call must respect ctx cancellation and deadlines.
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrQuotaExhausted marks a provider error caused by quota or rate-limit
// exhaustion. Adapters wrap their vendor-specific quota errors with it so the
// dispatcher can select a more specific user-facing apology. Quota errors
// advance the fallback chain exactly like any other provider error.
var ErrQuotaExhausted = errors.New("provider quota exhausted")

// quotaMarkers are substrings that identify quota errors in vendor error text
// when the adapter could not classify the failure structurally.
var quotaMarkers = []string{"quota", "rate limit", "rate_limit", "resource_exhausted", "429"}

// IsQuota reports whether err is a quota or rate-limit failure, either wrapped
// explicitly with ErrQuotaExhausted or recognizable from the error text.
func IsQuota(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExhausted) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
