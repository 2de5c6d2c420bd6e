// Package present formats the engine's QueryResponse for agent consumption
// at the MCP tool surface.
package present

import (
	"fmt"
	"sort"

	"github.com/toon-format/toon-go"

	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
)

// MarshalTOON converts a Go value into a TOON string. On failure, it returns
// a human-friendly error string so the tool surface still provides feedback
// instead of silently failing.
func MarshalTOON(data interface{}) string {
	out, err := toon.MarshalString(data, toon.WithLengthMarkers(true))
	if err != nil {
		return fmt.Sprintf("error: failed to marshal to TOON: %v", err)
	}
	return out
}

// resultRow is the flattened, TOON-friendly shape of one HybridResult: the
// wire format favors flat scalar fields over the nested Object/score
// pointers the engine works with internally.
type resultRow struct {
	ID          string  `toon:"id"`
	Type        string  `toon:"type"`
	FusedScore  float64 `toon:"fused_score"`
	TextScore   float64 `toon:"text_score,omitempty"`
	VectorScore float64 `toon:"vector_score,omitempty"`
	GraphScore  float64 `toon:"graph_score,omitempty"`
	GraphDepth  int     `toon:"graph_depth,omitempty"`
	Explanation string  `toon:"explanation"`
}

func toRow(r retrieval.HybridResult) resultRow {
	row := resultRow{
		ID:          r.Object.ID,
		Type:        r.Object.Type,
		FusedScore:  r.FusedScore,
		Explanation: r.Explanation,
	}
	if r.TextScore != nil {
		row.TextScore = *r.TextScore
	}
	if r.VectorScore != nil {
		row.VectorScore = *r.VectorScore
	}
	if r.GraphScore != nil {
		row.GraphScore = *r.GraphScore
	}
	if r.GraphDepth != nil {
		row.GraphDepth = *r.GraphDepth
	}
	return row
}

// armStatusRow flattens one ArmStatus entry with its arm name, since TOON
// renders a map of structs less compactly than a named list.
type armStatusRow struct {
	Arm    string `toon:"arm"`
	State  string `toon:"state"`
	Reason string `toon:"reason,omitempty"`
}

// responseDocument is the TOON wire shape of a QueryResponse.
type responseDocument struct {
	Results         []resultRow    `toon:"results"`
	TotalCount      int            `toon:"total_count"`
	ExecutionTimeMS int64          `toon:"execution_time_ms"`
	TraceID         string         `toon:"trace_id"`
	PerArmStatus    []armStatusRow `toon:"per_arm_status"`
}

// MarshalQueryResponse renders a QueryResponse as TOON for the MCP tool
// surface, the compact, token-oriented format the rest of this stack's MCP
// handlers use for agent-facing output.
func MarshalQueryResponse(resp retrieval.QueryResponse) string {
	doc := responseDocument{
		Results:         make([]resultRow, 0, len(resp.Results)),
		TotalCount:      resp.TotalCount,
		ExecutionTimeMS: resp.ExecutionTimeMS,
		TraceID:         resp.TraceID,
	}
	for _, r := range resp.Results {
		doc.Results = append(doc.Results, toRow(r))
	}

	arms := make([]string, 0, len(resp.PerArmStatus))
	for arm := range resp.PerArmStatus {
		arms = append(arms, arm)
	}
	sort.Strings(arms)
	for _, arm := range arms {
		status := resp.PerArmStatus[arm]
		doc.PerArmStatus = append(doc.PerArmStatus, armStatusRow{
			Arm:    arm,
			State:  string(status.State),
			Reason: status.Reason,
		})
	}

	return MarshalTOON(doc)
}

// CreateEmptyResultTOON builds a standard TOON response for a query that
// returned zero results, surfacing "did you mean" suggestions when the text
// arm came back empty.
func CreateEmptyResultTOON(message string, suggestions []retrieval.Suggestion) string {
	payload := map[string]interface{}{
		"message": message,
	}
	if len(suggestions) > 0 {
		names := make([]string, 0, len(suggestions))
		for _, s := range suggestions {
			names = append(names, fmt.Sprintf("%s (distance %d)", s.Matched, s.Distance))
		}
		payload["did_you_mean"] = names
	}
	return MarshalTOON(payload)
}
