package storage

import (
	"context"
	"fmt"

	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
)

type scoredObjectRow struct {
	objectRow
	Similarity float64 `json:"similarity"`
}

// QueryObjectsBySimilarity implements retrieval.Store.QueryObjectsBySimilarity
// using a two-stage ranked-subquery: the inner SELECT computes the cosine
// similarity and orders by it while the embedding column is still in scope,
// the outer SELECT re-projects named fields. A single-statement
// "SELECT ..., vector::similarity::cosine(...) AS similarity ... ORDER BY
// similarity" is not reliable once other fields are projected alongside it;
// splitting ordering from projection into two stages sidesteps that.
func (s *SurrealDBStorage) QueryObjectsBySimilarity(ctx context.Context, vector []float32, f retrieval.Filters, limit int) ([]retrieval.ScoredObject, error) {
	if len(vector) == 0 {
		return nil, retrieval.InvalidArgument("storage.QueryObjectsBySimilarity", "vector must not be empty")
	}

	params := map[string]interface{}{
		"query_vector": convertEmbeddingToFloat64(vector),
		"limit":        limit,
	}

	where := "WHERE embedding != NONE"
	if fc := filterClause(f, params); fc != "" {
		where += " AND " + fc
	}

	stmt := fmt.Sprintf(`
		SELECT %s, similarity FROM (
			SELECT *, vector::similarity::cosine(embedding, $query_vector) AS similarity
			FROM objects
			%s
			ORDER BY similarity DESC
			LIMIT $limit
		)
	`, objectFields, where)

	result, err := s.query(ctx, stmt, params)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.QueryObjectsBySimilarity", err)
	}

	rows, err := decodeResult[scoredObjectRow](result)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.QueryObjectsBySimilarity", err)
	}

	out := make([]retrieval.ScoredObject, 0, len(rows))
	for _, row := range rows {
		out = append(out, retrieval.ScoredObject{
			Object:     row.objectRow.toObject(),
			Similarity: row.Similarity,
		})
	}
	return out, nil
}
