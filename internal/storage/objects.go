package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
)

// objectFields is the fixed projection every read path in this package uses
// instead of SELECT *. SurrealDB's record-id and datetime values arrive in
// more than one wire shape depending on how a field was produced; projecting
// named fields and normalizing through normalizeSurrealDBDatetimes keeps the
// unmarshal step honest regardless of which shape showed up.
const objectFields = `id, type, kind, tenant_id, project_id, created_at, updated_at, ` +
	`name, title, signature, documentation, summary, description, content, outputs, embedding`

type objectRow struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Kind          string    `json:"kind"`
	TenantID      string    `json:"tenant_id"`
	ProjectID     string    `json:"project_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `json:"name"`
	Title         string    `json:"title"`
	Signature     string    `json:"signature"`
	Documentation string    `json:"documentation"`
	Summary       string    `json:"summary"`
	Description   string    `json:"description"`
	Content       string    `json:"content"`
	Outputs       string    `json:"outputs"`
	Embedding     []float32 `json:"embedding"`
}

func (r objectRow) toObject() retrieval.Object {
	return retrieval.Object{
		ID:            extractRecordID(r.ID),
		Type:          r.Type,
		Kind:          r.Kind,
		TenantID:      r.TenantID,
		ProjectID:     r.ProjectID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Name:          r.Name,
		Title:         r.Title,
		Signature:     r.Signature,
		Documentation: r.Documentation,
		Summary:       r.Summary,
		Description:   r.Description,
		Content:       r.Content,
		Outputs:       r.Outputs,
		Embedding:     r.Embedding,
	}
}

// filterClause builds a "WHERE"-less set of AND-joined predicates from f,
// binding every value by name into params so callers only need to append
// "WHERE " plus the returned clause (or skip the WHERE entirely when the
// clause is empty).
func filterClause(f retrieval.Filters, params map[string]interface{}) string {
	var clauses []string

	if len(f.ObjectTypes) > 0 {
		clauses = append(clauses, "type IN $object_types")
		params["object_types"] = f.ObjectTypes
	}
	if f.TenantID != nil {
		clauses = append(clauses, "tenant_id = $tenant_id")
		params["tenant_id"] = *f.TenantID
	}
	if f.ProjectID != nil {
		clauses = append(clauses, "project_id = $project_id")
		params["project_id"] = *f.ProjectID
	}
	if f.CreatedAfter != nil {
		clauses = append(clauses, "created_at >= $created_after")
		params["created_after"] = f.CreatedAfter.Format(time.RFC3339Nano)
	}
	if f.CreatedBefore != nil {
		clauses = append(clauses, "created_at <= $created_before")
		params["created_before"] = f.CreatedBefore.Format(time.RFC3339Nano)
	}

	return strings.Join(clauses, " AND ")
}

// textContainsClause ORs a case-folded CONTAINS predicate across every text
// field an object might carry, since the engine doesn't know ahead of time
// which field (if any) holds a match.
var textSearchFields = []string{
	"name", "title", "signature", "documentation", "summary", "description", "content", "outputs",
}

func textContainsClause(params map[string]interface{}) string {
	parts := make([]string, 0, len(textSearchFields))
	for _, field := range textSearchFields {
		parts = append(parts, fmt.Sprintf("string::lowercase(%s) CONTAINS $substring", field))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// QueryObjects implements retrieval.Store.QueryObjects: a case-insensitive
// containment search across every text field, narrowed by filters.
func (s *SurrealDBStorage) QueryObjects(ctx context.Context, substring string, f retrieval.Filters, limit int) ([]retrieval.Object, error) {
	params := map[string]interface{}{"limit": limit}
	clauses := []string{}

	if fc := filterClause(f, params); fc != "" {
		clauses = append(clauses, fc)
	}
	if substring != "" {
		params["substring"] = strings.ToLower(substring)
		clauses = append(clauses, textContainsClause(params))
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	stmt := fmt.Sprintf("SELECT %s FROM objects %s ORDER BY updated_at DESC LIMIT $limit", objectFields, where)

	result, err := s.query(ctx, stmt, params)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.QueryObjects", err)
	}

	rows, err := decodeResult[objectRow](result)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.QueryObjects", err)
	}

	objects := make([]retrieval.Object, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, row.toObject())
	}
	return objects, nil
}

// FetchObjects implements retrieval.Store.FetchObjects: query_objects
// specialized to an id-membership predicate, used by the graph traverser to
// resolve full snapshots for nodes it only knows by id.
func (s *SurrealDBStorage) FetchObjects(ctx context.Context, ids []string) ([]retrieval.Object, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	recordIDs := make([]string, len(ids))
	for i, id := range ids {
		recordIDs[i] = "objects:" + escapeRecordIDPart(id)
	}

	stmt := fmt.Sprintf("SELECT %s FROM [%s]", objectFields, strings.Join(recordIDs, ", "))

	result, err := s.query(ctx, stmt, nil)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.FetchObjects", err)
	}

	rows, err := decodeResult[objectRow](result)
	if err != nil {
		return nil, retrieval.DatabaseError("storage.FetchObjects", err)
	}

	objects := make([]retrieval.Object, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, row.toObject())
	}
	return objects, nil
}

// escapeRecordIDPart wraps an id in backticks when it isn't a bare
// identifier, matching the store's own record-id quoting rule.
func escapeRecordIDPart(id string) string {
	plain := true
	for _, r := range id {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			plain = false
			break
		}
	}
	if plain {
		return id
	}
	return "`" + strings.ReplaceAll(id, "`", "\\`") + "`"
}

// UpsertObject writes (or overwrites) one object record. Not part of
// retrieval.Store — the engine never writes — but needed by cmd/ampd to
// populate the store the engine reads from.
func (s *SurrealDBStorage) UpsertObject(ctx context.Context, o retrieval.Object) error {
	data := map[string]interface{}{
		"type":          o.Type,
		"kind":          o.Kind,
		"tenant_id":     o.TenantID,
		"project_id":    o.ProjectID,
		"name":          o.Name,
		"title":         o.Title,
		"signature":     o.Signature,
		"documentation": o.Documentation,
		"summary":       o.Summary,
		"description":   o.Description,
		"content":       o.Content,
		"outputs":       o.Outputs,
		"updated_at":    time.Now().UTC().Format(time.RFC3339Nano),
	}
	if o.Embedding != nil {
		data["embedding"] = convertEmbeddingToFloat64(o.Embedding)
	}

	resource := "objects:" + escapeRecordIDPart(o.ID)
	stmt := fmt.Sprintf("UPSERT %s CONTENT $data", resource)
	_, err := s.query(ctx, stmt, map[string]interface{}{"data": data})
	if err != nil {
		return retrieval.DatabaseError("storage.UpsertObject", err)
	}
	return nil
}
