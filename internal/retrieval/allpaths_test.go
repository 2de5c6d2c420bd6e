package retrieval

import (
	"context"
	"testing"
	"time"
)

func TestAllPathsSimplePathConstraint(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "a"})
	store.addObject(Object{ID: "b"})
	store.addObject(Object{ID: "c"})
	store.addEdge(Edge{From: "a", To: "b", Type: RelDependsOn})
	store.addEdge(Edge{From: "b", To: "c", Type: RelDependsOn})
	store.addEdge(Edge{From: "c", To: "a", Type: RelDependsOn}) // cycle back to start

	g := NewGraphTraverser(store, NewNormalizer(), time.Second, 50, 1000)
	results, truncated, err := g.AllPaths(context.Background(), GraphArgs{
		StartNodes: []string{"a"},
		MaxDepth:   5,
		Direction:  DirOut,
		Algorithm:  AlgoAllPaths,
	})
	if err != nil {
		t.Fatalf("AllPaths error: %v", err)
	}
	if truncated {
		t.Error("did not expect truncation")
	}
	for _, p := range results {
		seen := make(map[string]bool)
		for _, id := range p.IDs {
			if seen[id] {
				t.Errorf("path %v revisits node %s, violating simple-path constraint", p.IDs, id)
			}
			seen[id] = true
		}
	}
	// the cycle must have produced exactly one terminating simple path a->b->c
	found := false
	for _, p := range results {
		if len(p.IDs) == 3 && p.IDs[0] == "a" && p.IDs[1] == "b" && p.IDs[2] == "c" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected path a->b->c among results: %+v", results)
	}
}

func TestAllPathsCapTruncates(t *testing.T) {
	// a fans out to many distinct single-hop neighbors
	store := newFakeStore()
	store.addObject(Object{ID: "a"})
	for i := 0; i < 10; i++ {
		id := string(rune('b' + i))
		store.addObject(Object{ID: id})
		store.addEdge(Edge{From: "a", To: id, Type: RelDependsOn})
	}
	g := NewGraphTraverser(store, NewNormalizer(), time.Second, 50, 3)
	results, truncated, err := g.AllPaths(context.Background(), GraphArgs{
		StartNodes: []string{"a"},
		MaxDepth:   1,
		Direction:  DirOut,
		Algorithm:  AlgoAllPaths,
	})
	if err != nil {
		t.Fatalf("AllPaths error: %v", err)
	}
	if !truncated {
		t.Error("expected truncation with allPathsCap of 3")
	}
	if len(results) != 3 {
		t.Errorf("expected exactly 3 emitted paths, got %d", len(results))
	}
}

func TestAllPathsDeadEndEmittedAsShorterPath(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "a"})
	store.addObject(Object{ID: "b"})
	store.addEdge(Edge{From: "a", To: "b", Type: RelDependsOn}) // b has no further outgoing edges

	g := NewGraphTraverser(store, NewNormalizer(), time.Second, 50, 1000)
	results, _, err := g.AllPaths(context.Background(), GraphArgs{
		StartNodes: []string{"a"},
		MaxDepth:   5,
		Direction:  DirOut,
		Algorithm:  AlgoAllPaths,
	})
	if err != nil {
		t.Fatalf("AllPaths error: %v", err)
	}
	found := false
	for _, p := range results {
		if len(p.IDs) == 2 && p.IDs[1] == "b" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dead-end path a->b to be emitted short of max_depth: %+v", results)
	}
}
