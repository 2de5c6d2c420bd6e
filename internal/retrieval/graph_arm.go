package retrieval

import "context"

// graphArmEntry is one (object, score, depth) triple the executor feeds
// into the ResultMap, regardless of which of the three algorithms produced
// it.
type graphArmEntry struct {
	object Object
	score  float64
	depth  int
}

// graphArmOutcome carries the status detail the executor needs beyond the
// entries themselves — in particular whether Shortest came back
// Ran(unreachable), which is success, not failure.
type graphArmOutcome struct {
	entries    []graphArmEntry
	unreachable bool
	truncated  bool
}

// RunGraphArm dispatches to Collect/AllPaths/Shortest per args.Algorithm and
// normalizes each algorithm's distinct output shape into the common
// (object, score, depth) triples the ResultMap expects.
func (g *GraphTraverser) RunGraphArm(ctx context.Context, args GraphArgs, nodeCap int) (graphArmOutcome, error) {
	switch args.Algorithm {
	case AlgoAllPaths:
		return g.runAllPathsArm(ctx, args)
	case AlgoShortest:
		return g.runShortestArm(ctx, args)
	default:
		return g.runCollectArm(ctx, args, nodeCap)
	}
}

func (g *GraphTraverser) runCollectArm(ctx context.Context, args GraphArgs, nodeCap int) (graphArmOutcome, error) {
	entries, truncated, err := g.Collect(ctx, args, nodeCap)
	if err != nil {
		return graphArmOutcome{}, err
	}
	out := make([]graphArmEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, graphArmEntry{object: e.object, score: graphScoreForDepth(e.depth, args.MaxDepth), depth: e.depth})
	}
	return graphArmOutcome{entries: out, truncated: truncated}, nil
}

func (g *GraphTraverser) runAllPathsArm(ctx context.Context, args GraphArgs) (graphArmOutcome, error) {
	paths, truncated, err := g.AllPaths(ctx, args)
	if err != nil {
		return graphArmOutcome{}, err
	}

	// Keep only the best score per terminal id (already computed by
	// AllPaths), hydrate snapshots once per distinct terminal.
	bestByID := make(map[string]float64)
	depthByID := make(map[string]int)
	for _, p := range paths {
		terminal := p.IDs[len(p.IDs)-1]
		depth := len(p.IDs) - 1
		if existing, ok := bestByID[terminal]; !ok || p.Score > existing {
			bestByID[terminal] = p.Score
			depthByID[terminal] = depth
		}
	}

	ids := make([]string, 0, len(bestByID))
	for id := range bestByID {
		ids = append(ids, id)
	}
	objs, err := g.store.FetchObjects(ctx, ids)
	if err != nil {
		return graphArmOutcome{}, DatabaseError("graph.allpaths.hydrate", err)
	}
	byID := make(map[string]Object, len(objs))
	for _, o := range objs {
		byID[g.norm.Normalize(o.ID)] = o
	}

	out := make([]graphArmEntry, 0, len(bestByID))
	for id, score := range bestByID {
		obj, ok := byID[id]
		if !ok {
			obj = Object{ID: id}
		}
		out = append(out, graphArmEntry{object: obj, score: score, depth: depthByID[id]})
	}
	return graphArmOutcome{entries: out, truncated: truncated}, nil
}

func (g *GraphTraverser) runShortestArm(ctx context.Context, args GraphArgs) (graphArmOutcome, error) {
	res, err := g.Shortest(ctx, args)
	if err != nil {
		return graphArmOutcome{}, err
	}
	if !res.Reachable {
		return graphArmOutcome{unreachable: true}, nil
	}

	objs, err := g.store.FetchObjects(ctx, res.IDs)
	if err != nil {
		return graphArmOutcome{}, DatabaseError("graph.shortest.hydrate", err)
	}
	byID := make(map[string]Object, len(objs))
	for _, o := range objs {
		byID[g.norm.Normalize(o.ID)] = o
	}

	pathLen := len(res.IDs) - 1
	out := make([]graphArmEntry, 0, len(res.IDs))
	for i, id := range res.IDs {
		obj, ok := byID[id]
		if !ok {
			obj = Object{ID: id}
		}
		out = append(out, graphArmEntry{object: obj, score: graphScoreAlongPath(i, pathLen), depth: i})
	}
	return graphArmOutcome{entries: out}, nil
}
