package embedder

import (
	"context"
	"fmt"

	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
)

// Config is the dial/auth configuration for every provider this factory can
// build. Selection is explicit (Provider), not priority-based auto-detect.
type Config struct {
	// Provider selects which of the fields below is used: "openai",
	// "ollama", "openrouter", or "" to disable the vector arm entirely.
	Provider string

	OllamaURL   string
	OllamaModel string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	OpenRouterKey   string
	OpenRouterURL   string
	OpenRouterModel string
}

// NewEmbedderFromConfig builds the Embedder named by cfg.Provider. An empty
// Provider is an error here; NewProviderFromConfig handles that case by
// returning retrieval.NoEmbeddingProvider() without calling this factory.
func NewEmbedderFromConfig(cfg *Config) (Embedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	switch cfg.Provider {
	case "openai":
		model := cfg.OpenAIModel
		if model == "" {
			model = "text-embedding-3-large"
		}
		return NewOpenAIEmbedder(cfg.OpenAIKey, cfg.OpenAIBaseURL, model)
	case "ollama":
		if cfg.OllamaModel == "" {
			return nil, fmt.Errorf("ollama model is required when embedding-provider=ollama")
		}
		return NewOllamaEmbedder(cfg.OllamaURL, cfg.OllamaModel)
	case "openrouter":
		if cfg.OpenRouterModel == "" {
			return nil, fmt.Errorf("openrouter model is required when embedding-provider=openrouter")
		}
		return NewOpenRouterEmbedder(cfg.OpenRouterKey, cfg.OpenRouterURL, cfg.OpenRouterModel)
	case "":
		return nil, fmt.Errorf("no embedding provider configured")
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// providerAdapter implements retrieval.EmbeddingProvider over an Embedder,
// the boundary between this package's langchaingo-backed clients and the
// engine's narrower vector-arm contract.
type providerAdapter struct {
	embedder Embedder
}

func (p *providerAdapter) IsEnabled() bool { return p.embedder != nil }
func (p *providerAdapter) Dimension() int {
	if p.embedder == nil {
		return 0
	}
	return p.embedder.Dimension()
}
func (p *providerAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.embedder == nil {
		return nil, fmt.Errorf("embedding provider disabled")
	}
	return p.embedder.EmbedQuery(ctx, text)
}

// NewProviderFromConfig builds a retrieval.EmbeddingProvider from cfg. An
// empty cfg.Provider yields retrieval.NoEmbeddingProvider() rather than an
// error, since "no vector arm" is a valid, expected configuration.
func NewProviderFromConfig(cfg *Config) (retrieval.EmbeddingProvider, error) {
	if cfg == nil || cfg.Provider == "" {
		return retrieval.NoEmbeddingProvider(), nil
	}
	e, err := NewEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &providerAdapter{embedder: e}, nil
}
