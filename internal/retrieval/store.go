package retrieval

import "context"

// ScoredObject pairs an object with a similarity score from the vector arm.
type ScoredObject struct {
	Object     Object
	Similarity float64
}

// Store is the contract the engine consumes from the underlying multi-model
// store (§6.1). The concrete implementation lives in internal/storage and
// talks to SurrealDB; everything in this package is written against this
// interface so the traversal, fusion and scoring logic is testable against
// the in-memory faketore without a live database.
type Store interface {
	// QueryObjects returns objects matching a textual containment query
	// against a caller-supplied substring, narrowed by filters. The text
	// arm and the Suggester (with an empty substring, meaning no text
	// predicate) are the callers. Implementations must project explicit named
	// fields rather than select-star (see Design Notes on polymorphic
	// record-id serialization) and must report store errors distinctly
	// from "no rows".
	QueryObjects(ctx context.Context, substring string, f Filters, limit int) ([]Object, error)

	// QueryObjectsBySimilarity ranks objects by cosine similarity to
	// vector, narrowed by filters. Implementations must use the two-stage
	// ranked-subquery pattern: an inner query computes and orders by
	// similarity, an outer query projects fields by name.
	QueryObjectsBySimilarity(ctx context.Context, vector []float32, f Filters, limit int) ([]ScoredObject, error)

	// QueryNeighbors returns full neighbor object records reachable from
	// nodeID via a single (relationType, direction) pair. The graph
	// traverser issues one call per tuple at each expansion step and never
	// asks the store for a multi-label or recursive traversal.
	QueryNeighbors(ctx context.Context, nodeID string, relationType string, direction Direction) ([]Object, error)

	// FetchObjects resolves object snapshots by id. §6.1 names three store
	// operations; this is the same query_objects primitive specialized to
	// an id-membership predicate instead of a text substring, needed
	// because graph traversal's start/target nodes are identified only by
	// id and must still be represented by a full snapshot in results.
	FetchObjects(ctx context.Context, ids []string) ([]Object, error)
}

// EmbeddingProvider is the contract consumed from the external embedding
// collaborator (§6.2). Embedding generation itself is out of scope; the
// engine only needs these three operations to decide whether/how to run the
// vector arm from a text query.
type EmbeddingProvider interface {
	IsEnabled() bool
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// noEmbeddingProvider is used when no provider is configured; IsEnabled
// always reports false so the planner skips the vector arm's text-to-vector
// path rather than calling Embed.
type noEmbeddingProvider struct{}

func (noEmbeddingProvider) IsEnabled() bool                                { return false }
func (noEmbeddingProvider) Dimension() int                                 { return 0 }
func (noEmbeddingProvider) Embed(context.Context, string) ([]float32, error) { return nil, nil }

// NoEmbeddingProvider returns a disabled EmbeddingProvider, used as the
// default when a caller constructs an Engine without wiring one.
func NoEmbeddingProvider() EmbeddingProvider { return noEmbeddingProvider{} }
