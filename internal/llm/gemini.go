package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	// APIKey authenticates against the Gemini API.
	APIKey string
	// Model is the model identifier (e.g. "gemini-2.5-flash").
	Model string
}

// geminiProvider implements Provider using the Gemini API via the official
// genai client.
type geminiProvider struct {
	client *genai.Client
	model  string
}

// NewGemini returns a Provider backed by the Gemini API.
func NewGemini(ctx context.Context, cfg GeminiConfig) (Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiProvider{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (p *geminiProvider) Name() string { return "google" }

// Complete sends the conversation to Gemini. System messages are folded into
// the system instruction; user and assistant turns map to Gemini's user/model
// content roles.
func (p *geminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	var system string
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			if system != "" {
				system += "\n"
			}
			system += m.Content
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	res, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	// Safety-filtered responses come back with no candidates or empty parts.
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	return res.Candidates[0].Content.Parts[0].Text, nil
}
