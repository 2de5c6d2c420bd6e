package embedder

import (
	"context"
	"fmt"

	"github.com/revrost/go-openrouter"
)

// OpenRouterEmbedder implementa la interfaz Embedder utilizando OpenRouter,
// la tercera pata del trío OpenAI/Ollama/OpenRouter.
type OpenRouterEmbedder struct {
	client    *openrouter.Client
	model     string
	dimension int
}

// NewOpenRouterEmbedder crea una nueva instancia de OpenRouterEmbedder.
// apiKey: clave de API de OpenRouter (obligatoria; no se lee de ninguna variable de entorno)
// baseURL: URL base de la API (opcional, usa el valor por defecto de OpenRouter)
// model: identificador del modelo de embedding en OpenRouter
func NewOpenRouterEmbedder(apiKey, baseURL, model string) (*OpenRouterEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("openrouter model name is required")
	}

	opts := []openrouter.ClientOption{}
	if baseURL != "" {
		opts = append(opts, openrouter.WithBaseURL(baseURL))
	}

	client := openrouter.NewClient(apiKey, opts...)

	return &OpenRouterEmbedder{
		client:    client,
		model:     model,
		dimension: getDimensionForOpenRouterModel(model),
	}, nil
}

// EmbedDocuments crea embeddings para un lote de textos.
func (o *OpenRouterEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := o.client.CreateEmbeddings(ctx, openrouter.EmbeddingRequest{
		Model: o.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents via openrouter: %w", err)
	}

	result := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		result[i] = d.Embedding
	}
	return result, nil
}

// EmbedQuery crea un embedding para un único texto (una consulta).
func (o *OpenRouterEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	vecs, err := o.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("openrouter returned no embedding")
	}
	return vecs[0], nil
}

// Dimension devuelve la dimensionalidad de los vectores generados.
func (o *OpenRouterEmbedder) Dimension() int {
	return o.dimension
}

// getDimensionForOpenRouterModel devuelve la dimensión conocida para
// modelos de embedding comúnmente enrutados a través de OpenRouter.
func getDimensionForOpenRouterModel(model string) int {
	switch model {
	case "openai/text-embedding-3-large":
		return 3072
	case "openai/text-embedding-3-small", "openai/text-embedding-ada-002":
		return 1536
	default:
		return 1536
	}
}
