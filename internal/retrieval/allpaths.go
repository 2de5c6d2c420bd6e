package retrieval

import "context"

// pathEntry is a candidate simple path under construction: a sequence of
// normalized ids with no repetition.
type pathEntry struct {
	ids []string
}

func (p pathEntry) tail() string { return p.ids[len(p.ids)-1] }

func (p pathEntry) contains(id string) bool {
	for _, x := range p.ids {
		if x == id {
			return true
		}
	}
	return false
}

// AllPathsResult is one enumerated simple path together with its terminal
// object's best (shortest) score.
type AllPathsResult struct {
	IDs   []string
	Score float64
}

// AllPaths enumerates distinct simple paths from args.StartNodes via an
// iterative depth-first enumeration with an explicit work stack.
// Recursive function calls are deliberately never used here — they led to
// async-lifetime traps and unbounded stack growth when this was tried
// originally; the LIFO stack of paths keeps the whole algorithm iterative
// and bounded.
func (g *GraphTraverser) AllPaths(ctx context.Context, args GraphArgs) ([]AllPathsResult, bool, error) {
	if err := g.validate(args); err != nil {
		return nil, false, err
	}
	relTypes := relationTypesOrDefault(args.RelationTypes)
	maxLen := args.MaxDepth + 1

	var stack []pathEntry
	for _, start := range args.StartNodes {
		stack = append(stack, pathEntry{ids: []string{g.norm.Normalize(start)}})
	}

	// terminal objects keep only their best (shortest-hop) score across all
	// emitted paths they appear on.
	best := make(map[string]float64)
	var emitted [][]string
	truncated := false

loop:
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		// Pop the deepest path (LIFO).
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(p.ids) == maxLen {
			emitPath(p, best, &emitted)
			if len(emitted) >= g.allPathsCap {
				truncated = true
				break
			}
			continue
		}

		neighbors, err := g.neighbors(ctx, p.tail(), relTypes, args.Direction)
		if err != nil {
			// Treat as a dead end for this branch rather than aborting the
			// whole enumeration; partial results are acceptable.
			continue
		}

		extended := false
		for _, n := range neighbors {
			nid := g.norm.Normalize(n.ID)
			if nid == p.tail() {
				continue // self-loop, never followed
			}
			if p.contains(nid) {
				continue // simple-path constraint
			}
			extended = true
			newIDs := make([]string, len(p.ids)+1)
			copy(newIDs, p.ids)
			newIDs[len(p.ids)] = nid
			stack = append(stack, pathEntry{ids: newIDs})
		}

		// A path with no further extension and not yet at max length is
		// still a valid (shorter) simple path and is emitted as-is.
		if !extended {
			emitPath(p, best, &emitted)
			if len(emitted) >= g.allPathsCap {
				truncated = true
				break
			}
		}
	}

	return pathsWithTerminalScores(emitted, best), truncated, nil
}

func emitPath(p pathEntry, best map[string]float64, emitted *[][]string) {
	cp := make([]string, len(p.ids))
	copy(cp, p.ids)
	*emitted = append(*emitted, cp)

	hops := len(p.ids) - 1
	if hops < 1 {
		hops = 1
	}
	score := 1.0 / float64(hops)
	terminal := p.ids[len(p.ids)-1]
	if existing, ok := best[terminal]; !ok || score > existing {
		best[terminal] = score
	}
}

// pathsWithTerminalScores attaches each emitted path's terminal score
// (the best/shortest across all paths sharing that terminal) so callers can
// both enumerate paths and read the §4.4.3 per-object score.
func pathsWithTerminalScores(emitted [][]string, best map[string]float64) []AllPathsResult {
	out := make([]AllPathsResult, 0, len(emitted))
	for _, ids := range emitted {
		terminal := ids[len(ids)-1]
		out = append(out, AllPathsResult{IDs: ids, Score: best[terminal]})
	}
	return out
}
