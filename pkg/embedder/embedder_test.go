package embedder

import (
	"testing"
)

func TestNewEmbedderFromConfigOllama(t *testing.T) {
	embedder, err := NewEmbedderFromConfig(&Config{
		Provider:    "ollama",
		OllamaURL:   "http://localhost:11434",
		OllamaModel: "nomic-embed-text",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := embedder.(*OllamaEmbedder); !ok {
		t.Errorf("expected OllamaEmbedder, got %T", embedder)
	}
	if dim := embedder.Dimension(); dim <= 0 {
		t.Errorf("expected positive dimension, got %d", dim)
	}
}

func TestNewEmbedderFromConfigOpenAI(t *testing.T) {
	embedder, err := NewEmbedderFromConfig(&Config{
		Provider:    "openai",
		OpenAIKey:   "test-api-key",
		OpenAIModel: "text-embedding-3-large",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := embedder.(*OpenAIEmbedder); !ok {
		t.Errorf("expected OpenAIEmbedder, got %T", embedder)
	}
}

func TestNewEmbedderFromConfigOpenRouter(t *testing.T) {
	embedder, err := NewEmbedderFromConfig(&Config{
		Provider:        "openrouter",
		OpenRouterKey:   "test-api-key",
		OpenRouterModel: "openai/text-embedding-3-small",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := embedder.(*OpenRouterEmbedder); !ok {
		t.Errorf("expected OpenRouterEmbedder, got %T", embedder)
	}
}

func TestNewEmbedderFromConfigNil(t *testing.T) {
	if _, err := NewEmbedderFromConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNewEmbedderFromConfigEmptyProvider(t *testing.T) {
	if _, err := NewEmbedderFromConfig(&Config{}); err == nil {
		t.Error("expected error for empty provider")
	}
}

func TestEmbedderDimensions(t *testing.T) {
	tests := []struct {
		model    string
		expected int
	}{
		{"nomic-embed-text", 768},
		{"mxbai-embed-large", 1024},
		{"all-minilm", 384},
		{"unknown-model", 768}, // default
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			dim := getDimensionForModel(tt.model)
			if dim != tt.expected {
				t.Errorf("expected dimension %d for model %s, got %d", tt.expected, tt.model, dim)
			}
		})
	}
}

func TestOpenAIEmbedderDimensions(t *testing.T) {
	tests := []struct {
		model    string
		expected int
	}{
		{"text-embedding-3-large", 3072},
		{"text-embedding-3-small", 1536},
		{"text-embedding-ada-002", 1536},
		{"unknown-model", 1536}, // default
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			dim := getDimensionForOpenAIModel(tt.model)
			if dim != tt.expected {
				t.Errorf("expected dimension %d for model %s, got %d", tt.expected, tt.model, dim)
			}
		})
	}
}

func TestOpenRouterEmbedderDimensions(t *testing.T) {
	tests := []struct {
		model    string
		expected int
	}{
		{"openai/text-embedding-3-large", 3072},
		{"openai/text-embedding-3-small", 1536},
		{"unknown-model", 1536}, // default
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			dim := getDimensionForOpenRouterModel(tt.model)
			if dim != tt.expected {
				t.Errorf("expected dimension %d for model %s, got %d", tt.expected, tt.model, dim)
			}
		})
	}
}

// TestEmbedderInterface ensures our implementations satisfy the interface.
func TestEmbedderInterface(t *testing.T) {
	var _ Embedder = (*OllamaEmbedder)(nil)
	var _ Embedder = (*OpenAIEmbedder)(nil)
	var _ Embedder = (*OpenRouterEmbedder)(nil)
}

func BenchmarkNewEmbedderFromConfig(b *testing.B) {
	cfg := &Config{
		Provider:    "ollama",
		OllamaURL:   "http://localhost:11434",
		OllamaModel: "nomic-embed-text",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := NewEmbedderFromConfig(cfg)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
