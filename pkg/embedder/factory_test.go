package embedder

import (
	"context"
	"testing"
)

func TestNewProviderFromConfigDisabledWhenEmpty(t *testing.T) {
	p, err := NewProviderFromConfig(&Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsEnabled() {
		t.Error("expected provider disabled when Provider is empty")
	}
}

func TestNewProviderFromConfigNilConfig(t *testing.T) {
	p, err := NewProviderFromConfig(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsEnabled() {
		t.Error("expected provider disabled for nil config")
	}
}

func TestNewEmbedderFromConfigUnknownProvider(t *testing.T) {
	_, err := NewEmbedderFromConfig(&Config{Provider: "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewEmbedderFromConfigOllamaRequiresModel(t *testing.T) {
	_, err := NewEmbedderFromConfig(&Config{Provider: "ollama", OllamaURL: "http://localhost:11434"})
	if err == nil {
		t.Fatal("expected error when ollama model is missing")
	}
}

func TestNewEmbedderFromConfigOpenRouterRequiresModel(t *testing.T) {
	_, err := NewEmbedderFromConfig(&Config{Provider: "openrouter", OpenRouterKey: "k"})
	if err == nil {
		t.Fatal("expected error when openrouter model is missing")
	}
}

type fakeEmbedder struct{ dim int }

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}
func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, f.dim), nil
}
func (f *fakeEmbedder) Dimension() int { return f.dim }

func TestProviderAdapterDelegatesToEmbedder(t *testing.T) {
	adapter := &providerAdapter{embedder: &fakeEmbedder{dim: 42}}
	if !adapter.IsEnabled() {
		t.Fatal("expected enabled adapter")
	}
	if adapter.Dimension() != 42 {
		t.Errorf("Dimension() = %d, want 42", adapter.Dimension())
	}
	vec, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 42 {
		t.Errorf("len(vec) = %d, want 42", len(vec))
	}
}

func TestProviderAdapterNilEmbedderDisabled(t *testing.T) {
	adapter := &providerAdapter{}
	if adapter.IsEnabled() {
		t.Fatal("expected disabled adapter with nil embedder")
	}
	if _, err := adapter.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error embedding with disabled adapter")
	}
}
