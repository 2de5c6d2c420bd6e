package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	mcpserver "github.com/ThinkInAIXYZ/go-mcp/server"

	"github.com/madeindigio/remembrances-mcp/internal/present"
	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
	"github.com/madeindigio/remembrances-mcp/internal/storage"
	"github.com/madeindigio/remembrances-mcp/pkg/embedder"
)

const errParseArgs = "failed to parse arguments: %w"

// ToolManager owns the engine and storage handles the tool handlers below
// close over; it mirrors the grouping the teacher's own tool registration
// uses, scaled down to this server's four operations.
type ToolManager struct {
	store    *storage.SurrealDBStorage
	engine   *retrieval.Engine
	embedder embedder.Embedder // nil when no embedding provider is configured
}

// NewToolManager constructs a ToolManager.
func NewToolManager(store *storage.SurrealDBStorage, engine *retrieval.Engine, emb embedder.Embedder) *ToolManager {
	return &ToolManager{store: store, engine: engine, embedder: emb}
}

// RegisterTools registers every tool this server exposes.
func (tm *ToolManager) RegisterTools(srv *mcpserver.Server) error {
	reg := func(name string, tool *protocol.Tool, handler func(context.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error)) error {
		if tool == nil {
			return fmt.Errorf("tool %s creation returned nil", name)
		}
		srv.RegisterTool(tool, handler)
		return nil
	}

	if err := reg("amp_hybrid_query", tm.hybridQueryTool(), tm.hybridQueryHandler); err != nil {
		return err
	}
	if err := reg("amp_upsert_object", tm.upsertObjectTool(), tm.upsertObjectHandler); err != nil {
		return err
	}
	if err := reg("amp_upsert_edge", tm.upsertEdgeTool(), tm.upsertEdgeHandler); err != nil {
		return err
	}
	if err := reg("amp_get_stats", tm.getStatsTool(), tm.getStatsHandler); err != nil {
		return err
	}

	slog.Info("registered MCP tools")
	return nil
}

func (tm *ToolManager) hybridQueryTool() *protocol.Tool {
	tool, err := protocol.NewTool("amp_hybrid_query",
		`Run a fused lexical/semantic/structural search over the memory graph. Combines a text substring match, a vector-similarity search, and a graph traversal into one ranked, explained result list.`,
		HybridQueryInput{})
	if err != nil {
		slog.Error("failed to create tool", "name", "amp_hybrid_query", "err", err)
		return nil
	}
	return tool
}

func (tm *ToolManager) upsertObjectTool() *protocol.Tool {
	tool, err := protocol.NewTool("amp_upsert_object",
		`Create or replace an object (Symbol, Decision, ChangeSet, Run, FileLog, FileChunk, File, Directory, or Project) in the memory graph.`,
		UpsertObjectInput{})
	if err != nil {
		slog.Error("failed to create tool", "name", "amp_upsert_object", "err", err)
		return nil
	}
	return tool
}

func (tm *ToolManager) upsertEdgeTool() *protocol.Tool {
	tool, err := protocol.NewTool("amp_upsert_edge",
		`Create or replace a typed directed edge between two objects already present in the memory graph.`,
		UpsertEdgeInput{})
	if err != nil {
		slog.Error("failed to create tool", "name", "amp_upsert_edge", "err", err)
		return nil
	}
	return tool
}

func (tm *ToolManager) getStatsTool() *protocol.Tool {
	tool, err := protocol.NewTool("amp_get_stats",
		`Report the current object and edge counts stored in the memory graph.`,
		GetStatsInput{})
	if err != nil {
		slog.Error("failed to create tool", "name", "amp_get_stats", "err", err)
		return nil
	}
	return tool
}

func textContent(text string) []protocol.Content {
	return []protocol.Content{&protocol.TextContent{Type: "text", Text: text}}
}

func (tm *ToolManager) hybridQueryHandler(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var input HybridQueryInput
	if err := json.Unmarshal(request.RawArguments, &input); err != nil {
		return nil, fmt.Errorf(errParseArgs, err)
	}

	req, err := toQueryRequest(input)
	if err != nil {
		return protocol.NewCallToolResult(textContent(present.CreateEmptyResultTOON(err.Error(), nil)), true), nil
	}

	resp, suggestions, err := tm.engine.Run(ctx, req)
	if err != nil {
		return protocol.NewCallToolResult(textContent(present.CreateEmptyResultTOON(err.Error(), nil)), true), nil
	}

	if resp.TotalCount == 0 {
		msg := fmt.Sprintf("query returned no results for text %q", input.Text)
		return protocol.NewCallToolResult(textContent(present.CreateEmptyResultTOON(msg, suggestions)), false), nil
	}

	return protocol.NewCallToolResult(textContent(present.MarshalQueryResponse(resp)), false), nil
}

func toQueryRequest(input HybridQueryInput) (retrieval.QueryRequest, error) {
	req := retrieval.QueryRequest{
		Text:           input.Text,
		Limit:          input.Limit,
		Hybrid:         input.Hybrid,
		GraphAutoseed:  input.GraphAutoseed,
		GraphIntersect: input.GraphIntersect,
		Filters: retrieval.Filters{
			ObjectTypes: input.ObjectTypes,
		},
	}
	if input.TenantID != "" {
		req.Filters.TenantID = &input.TenantID
	}
	if input.ProjectID != "" {
		req.Filters.ProjectID = &input.ProjectID
	}
	if input.CreatedAfter != "" {
		t, err := time.Parse(time.RFC3339, input.CreatedAfter)
		if err != nil {
			return req, fmt.Errorf("invalid created_after: %w", err)
		}
		req.Filters.CreatedAfter = &t
	}
	if input.CreatedBefore != "" {
		t, err := time.Parse(time.RFC3339, input.CreatedBefore)
		if err != nil {
			return req, fmt.Errorf("invalid created_before: %w", err)
		}
		req.Filters.CreatedBefore = &t
	}

	if len(input.GraphStartNodes) > 0 {
		req.Graph = &retrieval.GraphArgs{
			StartNodes:    input.GraphStartNodes,
			MaxDepth:      input.GraphMaxDepth,
			Direction:     retrieval.Direction(input.GraphDirection),
			RelationTypes: input.GraphRelationTypes,
			Algorithm:     retrieval.Algorithm(input.GraphAlgorithm),
			TargetNode:    input.GraphTargetNode,
		}
	}

	return req, nil
}

func (tm *ToolManager) upsertObjectHandler(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var input UpsertObjectInput
	if err := json.Unmarshal(request.RawArguments, &input); err != nil {
		return nil, fmt.Errorf(errParseArgs, err)
	}

	now := time.Now()
	obj := retrieval.Object{
		ID:            input.ID,
		Type:          input.Type,
		Kind:          input.Kind,
		TenantID:      input.TenantID,
		ProjectID:     input.ProjectID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Name:          input.Name,
		Title:         input.Title,
		Signature:     input.Signature,
		Documentation: input.Documentation,
		Summary:       input.Summary,
		Description:   input.Description,
		Content:       input.Content,
		Outputs:       input.Outputs,
	}

	if input.EmbedFrom != "" && tm.embedder != nil {
		vec, err := tm.embedder.EmbedQuery(ctx, input.EmbedFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to embed object: %w", err)
		}
		obj.Embedding = vec
	}

	if err := tm.store.UpsertObject(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to upsert object: %w", err)
	}

	return protocol.NewCallToolResult(textContent(present.MarshalTOON(map[string]interface{}{"id": obj.ID, "status": "upserted"})), false), nil
}

func (tm *ToolManager) upsertEdgeHandler(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var input UpsertEdgeInput
	if err := json.Unmarshal(request.RawArguments, &input); err != nil {
		return nil, fmt.Errorf(errParseArgs, err)
	}

	meta := make(map[string]any, len(input.Meta))
	for k, v := range input.Meta {
		meta[k] = v
	}

	edge := retrieval.Edge{From: input.From, To: input.To, Type: input.Type, Metadata: meta}
	if err := tm.store.UpsertEdge(ctx, edge); err != nil {
		return nil, fmt.Errorf("failed to upsert edge: %w", err)
	}

	return protocol.NewCallToolResult(textContent(present.MarshalTOON(map[string]interface{}{"from": edge.From, "to": edge.To, "type": edge.Type, "status": "upserted"})), false), nil
}

func (tm *ToolManager) getStatsHandler(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	stats, err := tm.store.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return protocol.NewCallToolResult(textContent(present.MarshalTOON(stats)), false), nil
}
