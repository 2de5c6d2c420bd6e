package main

// HybridQueryInput is the MCP-facing input for amp_hybrid_query. It mirrors
// retrieval.QueryRequest but uses plain JSON-friendly fields, since a
// GraphArgs pointer and a []float32 vector aren't things an agent should
// have to construct by hand for the common case.
type HybridQueryInput struct {
	Text string `json:"text,omitempty" description:"Substring/lexical query, matched case-insensitively across name/title/signature/documentation/summary/description/content/outputs."`

	ObjectTypes   []string `json:"object_types,omitempty" description:"Restrict results to these object types (Symbol, Decision, ChangeSet, Run, FileLog, FileChunk, File, Directory, Project)."`
	TenantID      string   `json:"tenant_id,omitempty" description:"Restrict results to this tenant."`
	ProjectID     string   `json:"project_id,omitempty" description:"Restrict results to this project."`
	CreatedAfter  string   `json:"created_after,omitempty" description:"RFC3339 timestamp; only objects created at or after this time."`
	CreatedBefore string   `json:"created_before,omitempty" description:"RFC3339 timestamp; only objects created at or before this time."`

	Limit int `json:"limit,omitempty" description:"Maximum number of fused results. Defaults to 10."`

	Hybrid         bool `json:"hybrid,omitempty" description:"Run every arm the request enables concurrently, fusing their output. When false and exactly one arm is enabled, that arm's native ranking is used unchanged."`
	GraphAutoseed  bool `json:"graph_autoseed,omitempty" description:"When no explicit graph query is given, seed a depth-1 Collect traversal from the top text/vector hits."`
	GraphIntersect bool `json:"graph_intersect,omitempty" description:"Drop any result whose only contributing arm is graph."`

	GraphStartNodes    []string `json:"graph_start_nodes,omitempty" description:"Explicit graph traversal: object ids to start from."`
	GraphMaxDepth      int      `json:"graph_max_depth,omitempty" description:"Explicit graph traversal: max hop count, 1-10. Defaults to 1."`
	GraphDirection     string   `json:"graph_direction,omitempty" description:"Explicit graph traversal: out, in, or both. Defaults to out."`
	GraphRelationTypes []string `json:"graph_relation_types,omitempty" description:"Explicit graph traversal: restrict to these relation types; empty means all seven."`
	GraphAlgorithm     string   `json:"graph_algorithm,omitempty" description:"Explicit graph traversal: Collect, AllPaths, or Shortest. Defaults to Collect."`
	GraphTargetNode    string   `json:"graph_target_node,omitempty" description:"Required when graph_algorithm is Shortest."`
}

// UpsertObjectInput is the MCP-facing input for amp_upsert_object.
type UpsertObjectInput struct {
	ID            string `json:"id" description:"Stable object id."`
	Type          string `json:"type" description:"Object type (Symbol, Decision, ChangeSet, Run, FileLog, FileChunk, File, Directory, Project)."`
	Kind          string `json:"kind,omitempty"`
	TenantID      string `json:"tenant_id,omitempty"`
	ProjectID     string `json:"project_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Title         string `json:"title,omitempty"`
	Signature     string `json:"signature,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Description   string `json:"description,omitempty"`
	Content       string `json:"content,omitempty"`
	Outputs       string `json:"outputs,omitempty"`

	// EmbedFrom, when set, is embedded through the configured provider and
	// stored alongside the object; it is never itself persisted as a field.
	EmbedFrom string `json:"embed_from,omitempty" description:"Text to embed and store as this object's vector. If empty, no embedding is generated."`
}

// UpsertEdgeInput is the MCP-facing input for amp_upsert_edge.
type UpsertEdgeInput struct {
	From string            `json:"from" description:"Source object id."`
	To   string            `json:"to" description:"Target object id."`
	Type string            `json:"type" description:"One of depends_on, defined_in, calls, justified_by, modifies, implements, produced."`
	Meta map[string]string `json:"meta,omitempty"`
}

// GetStatsInput is the MCP-facing input for amp_get_stats. It takes no
// arguments; the struct exists so protocol.NewTool has a schema to reflect.
type GetStatsInput struct{}
