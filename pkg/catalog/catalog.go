// Package catalog defines the supported vision providers and their
// selectable model tiers.
package catalog

import "fmt"

// Provider identifies a remote vision-chat backend.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderClaude:
		return ProviderClaude, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("catalog: invalid provider %q (must be %q or %q)", s, ProviderClaude, ProviderOpenAI)
	}
}

// ModelInfo describes one selectable model tier.
type ModelInfo struct {
	ID          string  // Canonical API model identifier.
	Cost        float64 // Rough per-call cost estimate in USD.
	Description string
}

// Catalog is an immutable, ordered set of model tiers for one provider.
// Tier keys are provider-specific and never interchangeable across providers.
type Catalog struct {
	provider Provider
	keys     []string
	models   map[string]ModelInfo
	fast     string // Cheapest/fastest tier key.
	premium  string // Highest-capability tier key.
}

var claudeCatalog = Catalog{
	provider: ProviderClaude,
	keys:     []string{"haiku", "sonnet", "opus"},
	models: map[string]ModelInfo{
		"haiku":  {ID: "claude-3-haiku-20240307", Cost: 0.001, Description: "Fast and affordable"},
		"sonnet": {ID: "claude-3-5-sonnet-20241022", Cost: 0.003, Description: "Best balance"},
		"opus":   {ID: "claude-opus-4-5-20251101", Cost: 0.015, Description: "Highest quality"},
	},
	fast:    "haiku",
	premium: "opus",
}

var openaiCatalog = Catalog{
	provider: ProviderOpenAI,
	keys:     []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo"},
	models: map[string]ModelInfo{
		"gpt-4o":      {ID: "gpt-4o", Cost: 0.005, Description: "Latest GPT-4 with vision"},
		"gpt-4o-mini": {ID: "gpt-4o-mini", Cost: 0.00015, Description: "Fast and affordable GPT-4"},
		"gpt-4-turbo": {ID: "gpt-4-turbo", Cost: 0.01, Description: "Previous GPT-4 Turbo"},
	},
	fast:    "gpt-4o-mini",
	premium: "gpt-4o",
}

// ForProvider returns the model catalog for the given provider.
func ForProvider(p Provider) (Catalog, error) {
	switch p {
	case ProviderClaude:
		return claudeCatalog, nil
	case ProviderOpenAI:
		return openaiCatalog, nil
	default:
		return Catalog{}, fmt.Errorf("catalog: invalid provider %q (must be %q or %q)", p, ProviderClaude, ProviderOpenAI)
	}
}

// Provider returns the provider this catalog belongs to.
func (c Catalog) Provider() Provider { return c.provider }

// Lookup returns the model info for a tier key.
func (c Catalog) Lookup(key string) (ModelInfo, bool) {
	m, ok := c.models[key]
	return m, ok
}

// Keys returns the tier keys in their defined order.
func (c Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// FastTier returns the key of the cheapest/fastest tier.
func (c Catalog) FastTier() string { return c.fast }

// PremiumTier returns the key of the highest-capability tier.
func (c Catalog) PremiumTier() string { return c.premium }
