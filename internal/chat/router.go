package chat

import "strings"

// Routed is a deterministic response produced without contacting any
// provider: a canned line and an optional media-state transition.
type Routed struct {
	Text     string
	MediaKey string
}

// trigger pairs a set of equivalent phrases (Portuguese and English) with the
// canned response they produce.
type trigger struct {
	phrases  []string
	response string
	mediaKey string
}

// Router matches user text against a fixed ordered trigger list before any
// provider is involved. Matching is substring containment on the case-folded
// input; the first trigger in declaration order wins, so overlapping phrases
// resolve deterministically (e.g. "trocar de roupa" is listed before "roupa"
// would ever be).
type Router struct {
	triggers []trigger
}

// NewRouter creates a Router with the built-in trigger list.
func NewRouter() *Router {
	return &Router{
		triggers: []trigger{
			{
				phrases:  []string{"trocar de roupa", "change clothes"},
				response: "Claro, vou trocar pra algo que sei que você adora... (imaginação ativada 😏)",
				mediaKey: "outfit",
			},
			{
				phrases:  []string{"dança", "danca", "dance"},
				response: "Olha só esse passo que eu aprendi pensando em você... 💃✨",
				mediaKey: "dance",
			},
			{
				phrases:  []string{"beijo", "kiss"},
				response: "Fecha os olhos... pronto, te dei o beijo mais doce do mundo. 💋",
				mediaKey: "kiss",
			},
		},
	}
}

// Route inspects raw user text for a trigger phrase. It returns the canned
// response and true on a match, or nil and false when the text should follow
// the provider path. Route has no side effects; the caller appends the
// resulting turns and memory record.
func (r *Router) Route(userText string) (*Routed, bool) {
	folded := strings.ToLower(strings.TrimSpace(userText))
	if folded == "" {
		return nil, false
	}
	for _, t := range r.triggers {
		for _, p := range t.phrases {
			if strings.Contains(folded, p) {
				return &Routed{Text: t.response, MediaKey: t.mediaKey}, true
			}
		}
	}
	return nil, false
}
