package retrieval

import "context"

// ShortestResult is the optimal hop-count path to a target, or the
// Unreachable outcome.
type ShortestResult struct {
	IDs       []string
	Reachable bool
}

// Shortest is the best-known-distance traversal (§4.4.4): Dijkstra-style
// over an unweighted (hop-count) graph, with early termination the moment
// the target is first discovered as a neighbor (or is itself a start node).
// Because every edge has the same weight (one hop), a plain FIFO frontier processed in depth order behaves
// identically to a priority queue keyed by distance — so the algorithm is
// written as a breadth-first expansion, which is simpler and equivalent for
// this graph model.
func (g *GraphTraverser) Shortest(ctx context.Context, args GraphArgs) (ShortestResult, error) {
	if err := g.validate(args); err != nil {
		return ShortestResult{}, err
	}
	relTypes := relationTypesOrDefault(args.RelationTypes)
	target := g.norm.Normalize(args.TargetNode)

	type frontierItem struct {
		id   string
		dist int
	}

	dist := make(map[string]int)
	pred := make(map[string]string)
	var frontier []frontierItem

	for _, start := range args.StartNodes {
		id := g.norm.Normalize(start)
		if _, seen := dist[id]; seen {
			continue
		}
		dist[id] = 0
		if id == target {
			return ShortestResult{IDs: []string{id}, Reachable: true}, nil
		}
		frontier = append(frontier, frontierItem{id: id, dist: 0})
	}

	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			return ShortestResult{Reachable: false}, nil
		default:
		}

		item := frontier[0]
		frontier = frontier[1:]

		if item.dist >= args.MaxDepth {
			continue
		}

		neighbors, err := g.neighbors(ctx, item.id, relTypes, args.Direction)
		if err != nil {
			continue
		}

		nextDist := item.dist + 1
		for _, n := range neighbors {
			nid := g.norm.Normalize(n.ID)
			if nid == item.id {
				continue // self-loop
			}
			if existing, seen := dist[nid]; seen && existing <= nextDist {
				continue
			}
			dist[nid] = nextDist
			pred[nid] = item.id
			if nid == target {
				return ShortestResult{IDs: reconstructPath(pred, target), Reachable: true}, nil
			}
			frontier = append(frontier, frontierItem{id: nid, dist: nextDist})
		}
	}

	return ShortestResult{Reachable: false}, nil
}

func reconstructPath(pred map[string]string, target string) []string {
	var rev []string
	cur := target
	for {
		rev = append(rev, cur)
		p, ok := pred[cur]
		if !ok {
			break
		}
		cur = p
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// graphScoreAlongPath implements the §4.4.4 per-object score:
// 1 - index/path_length for each object on the path.
func graphScoreAlongPath(index, pathLength int) float64 {
	if pathLength <= 0 {
		return 1
	}
	return 1 - float64(index)/float64(pathLength)
}
