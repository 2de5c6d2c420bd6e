package present

import (
	"strings"
	"testing"

	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
)

func TestMarshalQueryResponseIncludesResultsAndStatus(t *testing.T) {
	textScore := 0.8
	resp := retrieval.QueryResponse{
		Results: []retrieval.HybridResult{
			{
				Object:      retrieval.Object{ID: "a", Type: retrieval.TypeSymbol},
				FusedScore:  0.8,
				TextScore:   &textScore,
				Explanation: "text: matched name",
			},
		},
		TotalCount:      1,
		ExecutionTimeMS: 12,
		TraceID:         "11111111-1111-1111-1111-111111111111",
		PerArmStatus: map[string]retrieval.ArmStatus{
			"text":  {State: retrieval.ArmRan},
			"graph": {State: retrieval.ArmSkipped, Reason: "no start nodes"},
		},
	}

	out := MarshalQueryResponse(resp)
	if !strings.Contains(out, "a") {
		t.Errorf("expected output to mention object id, got %q", out)
	}
	if !strings.Contains(out, "no start nodes") {
		t.Errorf("expected output to carry skip reason, got %q", out)
	}
}

func TestMarshalQueryResponseEmptyResults(t *testing.T) {
	resp := retrieval.QueryResponse{TraceID: "trace"}
	out := MarshalQueryResponse(resp)
	if out == "" {
		t.Fatal("expected non-empty TOON output even for zero results")
	}
}

func TestCreateEmptyResultTOONWithSuggestions(t *testing.T) {
	suggestions := []retrieval.Suggestion{
		{Object: retrieval.Object{ID: "x"}, Matched: "hash_password", Distance: 1},
	}
	out := CreateEmptyResultTOON("no matches", suggestions)
	if !strings.Contains(out, "hash_password") {
		t.Errorf("expected suggestion in output, got %q", out)
	}
}

func TestCreateEmptyResultTOONWithoutSuggestions(t *testing.T) {
	out := CreateEmptyResultTOON("no matches", nil)
	if !strings.Contains(out, "no matches") {
		t.Errorf("expected message in output, got %q", out)
	}
}
