package retrieval

import (
	"context"
	"log/slog"
	"time"
)

// GraphTraverser is C4: application-level BFS/DFS/Dijkstra over typed
// directed edges, entirely in memory, issuing one store query per
// (node, relation_type, direction) tuple during expansion. It never pushes
// multi-hop or multi-label traversal into the store — that recursive path
// was tried and abandoned for this edge model (see Design Notes); unreliable
// join semantics on unions of relation types and projection errors on
// polymorphic record ids are why every expansion step fans out to one store
// call per relation type and unions the neighbor sets in memory.
type GraphTraverser struct {
	store           Store
	norm            *Normalizer
	stepTimeout     time.Duration
	collectNodeCap  int
	allPathsCap     int
}

// NewGraphTraverser constructs a GraphTraverser. stepTimeout bounds each
// per-expansion store call; collectNodeCap/allPathsCap are the default
// bounds from §4.4.2/§4.4.3 (a positive nodeCap passed to Collect overrides
// collectNodeCap for that call; allPathsCap has no per-call override).
func NewGraphTraverser(store Store, norm *Normalizer, stepTimeout time.Duration, collectNodeCap, allPathsCap int) *GraphTraverser {
	if collectNodeCap <= 0 {
		collectNodeCap = DefaultCollectNodeCap
	}
	if allPathsCap <= 0 {
		allPathsCap = DefaultAllPathsCap
	}
	return &GraphTraverser{store: store, norm: norm, stepTimeout: stepTimeout, collectNodeCap: collectNodeCap, allPathsCap: allPathsCap}
}

// validate applies the common invariants every algorithm shares, returning
// an InvalidArgument error before any work begins when violated.
func (g *GraphTraverser) validate(args GraphArgs) error {
	if args.MaxDepth < 1 || args.MaxDepth > MaxAllowedDepth {
		return InvalidArgument("graph.validate", "max_depth %d out of range [1, %d]", args.MaxDepth, MaxAllowedDepth)
	}
	if len(args.StartNodes) == 0 {
		return InvalidArgument("graph.validate", "at least one start node is required")
	}
	if args.Algorithm == AlgoShortest && args.TargetNode == "" {
		return InvalidArgument("graph.validate", "target_node is required for Shortest")
	}
	return nil
}

// relationTypesOrDefault returns the configured relation subset, or the full
// fixed set of seven when unspecified.
func relationTypesOrDefault(types []string) []string {
	if len(types) == 0 {
		return AllRelationTypes
	}
	return types
}

// neighbors fans out one store call per (relation_type, direction) tuple
// required by dir and unions the results in memory — a single concatenated
// multi-type traversal string is never used; the store rejects or silently
// empties such queries for this edge model. Each call is wrapped in a
// timeout of min(remaining deadline, per-step cap); a failed call is
// recorded and traversal continues with whatever succeeded.
func (g *GraphTraverser) neighbors(ctx context.Context, nodeID string, relTypes []string, dir Direction) ([]Object, error) {
	dirs := []Direction{dir}
	if dir == DirBoth {
		dirs = []Direction{DirOut, DirIn}
	}

	var out []Object
	var firstErr error
	for _, d := range dirs {
		for _, rt := range relTypes {
			stepCtx, cancel := g.stepContext(ctx)
			objs, err := g.store.QueryNeighbors(stepCtx, g.norm.Normalize(nodeID), rt, d)
			cancel()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				slog.Warn("graph expansion step failed, continuing", "node", nodeID, "relation", rt, "direction", d, "error", err)
				continue
			}
			out = append(out, objs...)
		}
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (g *GraphTraverser) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	budget := g.stepTimeout
	if budget <= 0 {
		budget = time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining < budget {
			budget = remaining
		}
	}
	return context.WithTimeout(ctx, budget)
}

// graphScoreForDepth implements the Collect/autoseed score curve: root is
// 1.0, each hop discounts, floored at 0.
func graphScoreForDepth(depth, maxDepth int) float64 {
	score := 1 - float64(depth)/float64(maxDepth+1)
	if score < 0 {
		return 0
	}
	return score
}
