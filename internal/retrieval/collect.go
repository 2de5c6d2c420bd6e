package retrieval

import "context"

// collectEntry is one discovered object at its shortest discovery depth.
type collectEntry struct {
	object Object
	depth  int
}

// Collect is the breadth-first unique-collection algorithm (§4.4.2). Start
// nodes are included in the result at depth 0. Self-loops and
// already-visited nodes are never re-enqueued; visited-at-enqueue-time
// marking is what keeps a self-loop from being followed at all.
func (g *GraphTraverser) Collect(ctx context.Context, args GraphArgs, nodeCap int) ([]collectEntry, bool, error) {
	if err := g.validate(args); err != nil {
		return nil, false, err
	}
	if nodeCap <= 0 {
		nodeCap = g.collectNodeCap
	}
	relTypes := relationTypesOrDefault(args.RelationTypes)

	type queueItem struct {
		id    string
		depth int
	}

	visited := make(map[string]bool)
	var queue []queueItem
	var results []collectEntry
	byID := make(map[string]*Object)

	truncated := false

	startObjs, err := g.store.FetchObjects(ctx, args.StartNodes)
	if err != nil {
		return nil, false, DatabaseError("graph.collect", err)
	}
	for _, o := range startObjs {
		oCopy := o
		byID[g.norm.Normalize(o.ID)] = &oCopy
	}

	for _, start := range args.StartNodes {
		id := g.norm.Normalize(start)
		if visited[id] {
			continue
		}
		visited[id] = true
		queue = append(queue, queueItem{id: id, depth: 0})
	}

	for len(queue) > 0 {
		if len(results) >= nodeCap {
			truncated = true
			break
		}
		select {
		case <-ctx.Done():
			return results, true, nil
		default:
		}

		item := queue[0]
		queue = queue[1:]

		obj := byID[item.id]
		if obj == nil {
			// A start node the up-front FetchObjects did not return has no
			// snapshot — fabricate a minimal placeholder keyed by id so the
			// root is still represented in the results.
			placeholder := Object{ID: item.id}
			obj = &placeholder
		}
		results = append(results, collectEntry{object: *obj, depth: item.depth})

		if item.depth >= args.MaxDepth {
			continue
		}

		neighbors, err := g.neighbors(ctx, item.id, relTypes, args.Direction)
		if err != nil {
			// A failed expansion step does not abort the traversal; the
			// node simply yields no further neighbors this round.
			continue
		}

		for _, n := range neighbors {
			nid := g.norm.Normalize(n.ID)
			if nid == item.id {
				continue // self-loop: never followed
			}
			if visited[nid] {
				continue
			}
			visited[nid] = true
			nCopy := n
			byID[nid] = &nCopy
			queue = append(queue, queueItem{id: nid, depth: item.depth + 1})
		}
	}

	return results, truncated, nil
}
