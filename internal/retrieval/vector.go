package retrieval

import (
	"context"
	"errors"
	"log/slog"
)

var errNoEmbeddingProvider = errors.New("embedding provider disabled")

// VectorSearcher is C3: cosine-similarity search over stored embeddings.
// Objects with a null/absent embedding are silently excluded by the store
// query itself (this is the most common failure mode in mixed corpora; the
// arm degrades gracefully rather than erroring on it).
//
// The store implementation behind Store.QueryObjectsBySimilarity is
// responsible for the ranked-subquery pattern described in §4.3 — an inner
// query computes similarity and orders by it, an outer query projects named
// fields — because the underlying store is assumed to mishandle select-star
// projections containing polymorphic tagged ids combined with an ORDER BY.
type VectorSearcher struct {
	store    Store
	embedder EmbeddingProvider
}

// NewVectorSearcher constructs a VectorSearcher. embedder may be
// NoEmbeddingProvider() if text-to-vector derivation is not needed.
func NewVectorSearcher(store Store, embedder EmbeddingProvider) *VectorSearcher {
	return &VectorSearcher{store: store, embedder: embedder}
}

// Search runs the vector arm against an explicit vector.
func (v *VectorSearcher) Search(ctx context.Context, vector []float32, f Filters, limitPerArm int) ([]ScoredObject, error) {
	results, err := v.store.QueryObjectsBySimilarity(ctx, vector, f, limitPerArm)
	if err != nil {
		return nil, DatabaseError("vector.search", err)
	}
	for i := range results {
		results[i].Similarity = clip01(results[i].Similarity)
	}
	slog.Debug("vector arm completed", "results", len(results))
	return results, nil
}

// EmbedQuery derives a vector from free text via the configured embedding
// provider. The executor's vector arm invokes this only for plans the
// planner built with the provider enabled; on failure it returns an *Error
// of KindEmbeddingError so the caller can record
// Skipped(embedding_unavailable) rather than Failed.
func (v *VectorSearcher) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if !v.embedder.IsEnabled() {
		return nil, EmbeddingError("vector.embed", errNoEmbeddingProvider)
	}
	vec, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return nil, EmbeddingError("vector.embed", err)
	}
	return vec, nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
