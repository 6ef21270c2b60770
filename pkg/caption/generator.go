// Package caption orchestrates caption generation: provider and model
// selection, image preparation, prompt composition, and dispatch to a
// vision-capable chat API.
package caption

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/photocap/photocap/pkg/catalog"
	"github.com/photocap/photocap/pkg/imaging"
	"github.com/photocap/photocap/pkg/visionadapter"
	"github.com/photocap/photocap/pkg/visionadapter/anthropic"
	"github.com/photocap/photocap/pkg/visionadapter/openai"
)

// Env variable consulted per provider when Config.APIKey is empty.
const (
	envAnthropicKey = "ANTHROPIC_API_KEY"
	envOpenAIKey    = "OPENAI_API_KEY"
)

// Config configures a Generator. The credential resolution order is the
// explicit APIKey field first, then the provider's environment variable.
type Config struct {
	Provider   catalog.Provider // Defaults to claude.
	APIKey     string
	BaseURL    string       // Overrides the provider endpoint; used by tests.
	HTTPClient *http.Client // Optional transport override (timeouts live here).
}

// Generator produces captions for images. It is bound to exactly one
// provider and one model catalog for its lifetime; use New to switch
// providers. Each Generate call is a stateless, synchronous, one-shot
// exchange; concurrent use is only as safe as the underlying HTTP client.
type Generator struct {
	provider catalog.Provider
	catalog  catalog.Catalog
	client   visionadapter.Client
}

// New creates a Generator for the configured provider. The credential is
// resolved once, here, and never read from the environment again.
func New(cfg Config) (*Generator, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = catalog.ProviderClaude
	}

	cat, err := catalog.ForProvider(provider)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	var client visionadapter.Client

	switch provider {
	case catalog.ProviderClaude:
		key := resolveKey(cfg.APIKey, envAnthropicKey)
		if key == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("Anthropic API key required (set %s)", envAnthropicKey)}
		}
		a := anthropic.New(baseURL(cfg.BaseURL, anthropic.DefaultBaseURL), key)
		a.Client = cfg.HTTPClient
		client = a

	case catalog.ProviderOpenAI:
		key := resolveKey(cfg.APIKey, envOpenAIKey)
		if key == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("OpenAI API key required (set %s)", envOpenAIKey)}
		}
		a := openai.New(baseURL(cfg.BaseURL, openai.DefaultBaseURL), key)
		a.Client = cfg.HTTPClient
		client = a
	}

	return &Generator{
		provider: provider,
		catalog:  cat,
		client:   client,
	}, nil
}

// Provider returns the provider this generator is bound to.
func (g *Generator) Provider() catalog.Provider { return g.provider }

// Models returns the active provider's model catalog.
func (g *Generator) Models() catalog.Catalog { return g.catalog }

// Options controls a single Generate call.
type Options struct {
	// Style selects the caption tone/format template; empty and unknown
	// keys resolve to DefaultStyle.
	Style string

	// Model is a tier key in the active provider's catalog. Empty selects a
	// style-aware default: the premium tier for the social style, the fast
	// tier otherwise.
	Model string

	// LocationContext is a sentence appended verbatim to the prompt.
	LocationContext string
}

// Generate produces a caption for the image at imagePath. The model key is
// validated before any image processing or network I/O. Either a complete
// trimmed caption is returned or an error; never a partial result.
func (g *Generator) Generate(ctx context.Context, imagePath string, opts Options) (string, error) {
	style := opts.Style
	if style == "" {
		style = DefaultStyle
	}

	modelKey := opts.Model
	if modelKey == "" {
		modelKey = g.defaultModelKey(style)
	}

	info, ok := g.catalog.Lookup(modelKey)
	if !ok {
		return "", &InvalidModelError{Key: modelKey, Valid: g.catalog.Keys()}
	}

	imageB64, err := imaging.Prepare(imagePath)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(style, opts.LocationContext)

	text, err := g.client.SendVisionRequest(ctx, info.ID, imageB64, prompt)
	if err != nil {
		return "", &GenerationError{Provider: g.provider, Err: err}
	}

	return text, nil
}

// defaultModelKey routes the social style to the premium tier and every
// other style to the fast tier.
func (g *Generator) defaultModelKey(style string) string {
	if style == "social" {
		return g.catalog.PremiumTier()
	}
	return g.catalog.FastTier()
}

func resolveKey(explicit, envVar string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envVar)
}

func baseURL(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
