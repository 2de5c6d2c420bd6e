package retrieval

import (
	"fmt"
	"sort"
)

// Weights are the per-arm fusion weights used by the Scorer. They must sum
// to ≤ 1; Scorer validates this at construction time rather than silently
// producing scores that don't reflect intent.
type Weights struct {
	Vector float64
	Text   float64
	Graph  float64
}

// DefaultWeights matches §4.8's defaults.
var DefaultWeights = Weights{Vector: 0.40, Text: 0.30, Graph: 0.30}

// Scorer is C7: it computes the fused score per object and produces a
// human-readable explanation.
//
// The Open Question in §9 about weight renormalization when not all arms
// ran is resolved here, pinned rather than left ambiguous: weights are
// absolute. A missing arm contributes 0 to the fused score; weights are
// never rescaled based on which arms happened to run. This is recorded as a
// deliberate design decision, not an oversight.
type Scorer struct {
	weights Weights
}

// NewScorer validates weights and constructs a Scorer.
func NewScorer(w Weights) (*Scorer, error) {
	if w.Vector+w.Text+w.Graph > 1.0001 {
		return nil, fmt.Errorf("retrieval: configured weights sum to %.4f, must be <= 1", w.Vector+w.Text+w.Graph)
	}
	return &Scorer{weights: w}, nil
}

// Score computes the final ranked result list from a ResultMap snapshot.
// intersect implements §4.8's rule: when graph_intersect=true, an entry with
// a graph contribution but no text/vector contribution is dropped rather
// than scored to 0.
func (s *Scorer) Score(entries []snapshotEntry, intersect bool, limit int) []HybridResult {
	results := make([]HybridResult, 0, len(entries))

	for _, e := range entries {
		hasTextOrVector := e.contributingArms["text"] || e.contributingArms["vector"]
		if intersect && e.contributingArms["graph"] && !hasTextOrVector {
			continue
		}

		fused := 0.0
		if e.vectorScore != nil {
			fused += s.weights.Vector * *e.vectorScore
		}
		if e.textScore != nil {
			fused += s.weights.Text * *e.textScore
		}
		if e.graphScore != nil {
			fused += s.weights.Graph * *e.graphScore
		}

		results = append(results, HybridResult{
			Object:      e.object,
			FusedScore:  fused,
			TextScore:   e.textScore,
			VectorScore: e.vectorScore,
			GraphScore:  e.graphScore,
			GraphDepth:  e.graphDepth,
			Explanation: explain(e),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.FusedScore != b.FusedScore {
			return a.FusedScore > b.FusedScore
		}
		ac, bc := countArms(a), countArms(b)
		if ac != bc {
			return ac > bc
		}
		if !a.Object.UpdatedAt.Equal(b.Object.UpdatedAt) {
			return a.Object.UpdatedAt.After(b.Object.UpdatedAt)
		}
		return a.Object.ID < b.Object.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func countArms(r HybridResult) int {
	n := 0
	if r.TextScore != nil {
		n++
	}
	if r.VectorScore != nil {
		n++
	}
	if r.GraphScore != nil {
		n++
	}
	return n
}

// explain builds a human-readable explanation enumerating which arms
// matched. Explanations are never empty: an entry always has at least one
// contributing arm by construction (it only exists in the ResultMap because
// some arm wrote it).
func explain(e snapshotEntry) string {
	var parts []string
	if e.textScore != nil {
		if e.textQuery != "" {
			parts = append(parts, explainTextMatch(e.textQuery, e.textField))
		} else {
			parts = append(parts, fmt.Sprintf("matched text (score %.2f)", *e.textScore))
		}
	}
	if e.vectorScore != nil {
		parts = append(parts, fmt.Sprintf("vector similarity %.2f", *e.vectorScore))
	}
	if e.graphScore != nil {
		depth := 0
		if e.graphDepth != nil {
			depth = *e.graphDepth
		}
		parts = append(parts, fmt.Sprintf("graph: discovered at depth %d", depth))
	}
	if len(parts) == 0 {
		return "no contributing arm"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "; " + p
	}
	return out
}

// explainTextMatch renders the §4.8 field-kind-aware explanation fragment
// for the text arm specifically, e.g. "matched 'password' in name".
func explainTextMatch(query string, field textFieldKind) string {
	f := string(field)
	if f == "" {
		f = "other"
	}
	return fmt.Sprintf("matched '%s' in %s", query, f)
}
