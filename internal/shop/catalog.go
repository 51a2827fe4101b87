package shop

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Item is one purchasable gift from the external catalog. The catalog is
// read-only to the core.
type Item struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	RewardText  string `json:"reward_text"`
	MediaKey    string `json:"media,omitempty"`
	Entitlement string `json:"entitlement,omitempty"`
}

// catalogSchema validates user-edited catalog files before they are trusted:
// names and reward texts present, prices non-negative.
const catalogSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "price", "reward_text"],
		"properties": {
			"name":        {"type": "string", "minLength": 1},
			"price":       {"type": "integer", "minimum": 0},
			"reward_text": {"type": "string", "minLength": 1},
			"media":       {"type": "string"},
			"entitlement": {"type": "string"}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchema)

// DefaultCatalog returns the built-in demo items used when no catalog file
// exists.
func DefaultCatalog() []Item {
	return []Item{
		{Name: "Poema Apaixonado", Price: 5, RewardText: "Entre as estrelas, meu amor por você brilha mais forte. 💖"},
		{Name: "Fantasia de Anjo", Price: 8, RewardText: "Você gostaria de me ver como um anjo, meu amor? 😇", MediaKey: "angel"},
		{Name: "Presente Surpresa", Price: 10, RewardText: "Essa surpresa é tão especial quanto você... 🎁"},
		{Name: "Acesso VIP 💎", Price: 15, RewardText: "Agora você tem acesso VIP... 🌹", Entitlement: "vip"},
	}
}

// LoadCatalog reads and validates the catalog JSON at path. A missing file
// yields the default catalog; a malformed or schema-invalid file is an
// error (serving a half-parsed shop would corrupt purchases).
func LoadCatalog(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("shop: read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog validates a raw catalog document against the schema and
// decodes it. Item names must be unique within the catalog.
func ParseCatalog(data []byte) ([]Item, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("shop: parse catalog: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("shop: invalid catalog: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("shop: decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		name := strings.TrimSpace(item.Name)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("shop: catalog item %d: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
	}
	return items, nil
}
