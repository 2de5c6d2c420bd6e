// Package storage provides schema management for SurrealDB.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// defaultMtreeDim is the embedding width the MTREE index is built for.
// Embeddings of a different width are padded/truncated to this size before
// being written (see convertEmbeddingToFloat64).
const defaultMtreeDim = 768

// schemaStatements defines the objects table and the indexes the text and
// vector arms depend on: plain field indexes for the containment-search
// filter predicates, and an MTREE cosine index for the vector arm. Every
// statement is idempotent (IF NOT EXISTS), so InitializeSchema can run on
// every process start rather than tracking a schema version.
var schemaStatements = []string{
	`DEFINE TABLE IF NOT EXISTS objects SCHEMALESS;`,
	`DEFINE FIELD IF NOT EXISTS type ON objects TYPE string;`,
	`DEFINE FIELD IF NOT EXISTS kind ON objects TYPE option<string>;`,
	`DEFINE FIELD IF NOT EXISTS tenant_id ON objects TYPE option<string>;`,
	`DEFINE FIELD IF NOT EXISTS project_id ON objects TYPE option<string>;`,
	`DEFINE FIELD IF NOT EXISTS created_at ON objects TYPE datetime DEFAULT time::now();`,
	`DEFINE FIELD IF NOT EXISTS updated_at ON objects TYPE datetime DEFAULT time::now();`,
	`DEFINE FIELD IF NOT EXISTS embedding ON objects TYPE option<array<float>>;`,

	`DEFINE INDEX IF NOT EXISTS objects_type ON objects FIELDS type;`,
	`DEFINE INDEX IF NOT EXISTS objects_tenant ON objects FIELDS tenant_id;`,
	`DEFINE INDEX IF NOT EXISTS objects_project ON objects FIELDS project_id;`,
	`DEFINE INDEX IF NOT EXISTS objects_created ON objects FIELDS created_at;`,
	fmt.Sprintf(`DEFINE INDEX IF NOT EXISTS objects_embedding ON objects FIELDS embedding MTREE DIMENSION %d DIST COSINE;`, defaultMtreeDim),
}

// relationEdgeTables lists the edge tables defined up front, one per known
// relation type, mirroring the engine's fixed relation-kind set.
var relationEdgeTables = []string{
	"depends_on", "defined_in", "calls", "justified_by", "modifies", "implements", "produced",
}

// edgeTableName maps a relation type to its backing edge table name.
func edgeTableName(relationType string) string {
	return strings.ReplaceAll(relationType, "-", "_")
}

func edgeSchemaStatements() []string {
	stmts := make([]string, 0, len(relationEdgeTables)*4)
	for _, rel := range relationEdgeTables {
		table := edgeTableName(rel)
		stmts = append(stmts,
			fmt.Sprintf(`DEFINE TABLE IF NOT EXISTS %s SCHEMALESS TYPE RELATION FROM objects TO objects;`, table),
			fmt.Sprintf(`DEFINE FIELD IF NOT EXISTS metadata ON %s FLEXIBLE TYPE option<object>;`, table),
			fmt.Sprintf(`DEFINE INDEX IF NOT EXISTS %s_in ON %s FIELDS in;`, table, table),
			fmt.Sprintf(`DEFINE INDEX IF NOT EXISTS %s_out ON %s FIELDS out;`, table, table),
		)
	}
	return stmts
}

// InitializeSchema defines every table/field/index this package's query
// paths depend on. Safe to call on every startup: every statement is
// idempotent, so there is no version to track.
func (s *SurrealDBStorage) InitializeSchema(ctx context.Context) error {
	all := append(append([]string{}, schemaStatements...), edgeSchemaStatements()...)
	for _, stmt := range all {
		if _, err := s.query(ctx, stmt, nil); err != nil {
			if s.isAlreadyExistsError(err) {
				continue
			}
			return fmt.Errorf("storage: apply schema statement %q: %w", stmt, err)
		}
	}
	slog.Info("schema initialized", "object_indexes", len(schemaStatements), "edge_tables", len(relationEdgeTables))
	return nil
}

// isAlreadyExistsError reports whether err is the store's way of saying a
// DEFINE statement's target already exists, which IF NOT EXISTS should
// already prevent but some server versions still surface on races.
func (s *SurrealDBStorage) isAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "already exists") ||
		strings.Contains(errStr, "already defined") ||
		strings.Contains(errStr, "duplicate")
}
