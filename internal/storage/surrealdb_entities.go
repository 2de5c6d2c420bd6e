package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
)

// QueryNeighbors implements retrieval.Store.QueryNeighbors: full neighbor
// object records reachable from nodeID across exactly one (relationType,
// direction) edge table, one store call per tuple. The graph traverser
// drives fan-out by issuing one such call per relation/direction pair at
// each expansion step rather than asking the store for a recursive or
// multi-label walk.
func (s *SurrealDBStorage) QueryNeighbors(ctx context.Context, nodeID string, relationType string, direction retrieval.Direction) ([]retrieval.Object, error) {
	table := edgeTableName(relationType)
	record := "objects:" + escapeRecordIDPart(nodeID)

	var stmt string
	switch direction {
	case retrieval.DirOut:
		stmt = fmt.Sprintf("SELECT %s FROM (SELECT ->%s->objects.* AS n FROM %s)[0].n", objectFields, table, record)
	case retrieval.DirIn:
		stmt = fmt.Sprintf("SELECT %s FROM (SELECT <-%s<-objects.* AS n FROM %s)[0].n", objectFields, table, record)
	case retrieval.DirBoth:
		stmt = fmt.Sprintf(
			"SELECT %s FROM (SELECT array::union(->%s->objects.*, <-%s<-objects.*) AS n FROM %s)[0].n",
			objectFields, table, table, record,
		)
	default:
		return nil, retrieval.InvalidArgument("storage.QueryNeighbors", "unknown direction %q", direction)
	}

	result, err := s.query(ctx, stmt, nil)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.QueryNeighbors", err)
	}

	rows, err := decodeResult[objectRow](result)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.QueryNeighbors", err)
	}

	objects := make([]retrieval.Object, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, row.toObject())
	}
	return objects, nil
}

// UpsertEdge writes one directed typed edge between two existing objects.
// Not part of retrieval.Store — the engine never writes — but needed by
// cmd/ampd to populate the graph the engine traverses.
func (s *SurrealDBStorage) UpsertEdge(ctx context.Context, e retrieval.Edge) error {
	table := edgeTableName(e.Type)
	from := "objects:" + escapeRecordIDPart(e.From)
	to := "objects:" + escapeRecordIDPart(e.To)

	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	stmt := fmt.Sprintf("RELATE %s->%s->%s SET metadata = $metadata, created_at = $created_at", from, table, to)
	_, err := s.query(ctx, stmt, map[string]interface{}{
		"metadata":   metadata,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return retrieval.DatabaseError("storage.UpsertEdge", err)
	}
	return nil
}
