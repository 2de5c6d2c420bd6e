package retrieval

import (
	"context"
	"testing"
	"time"
)

func TestShortestFindsMinimalHopPath(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "a"})
	store.addObject(Object{ID: "b"})
	store.addObject(Object{ID: "c"})
	store.addObject(Object{ID: "d"})
	// two routes from a to d: a->b->c->d (3 hops) and a->d (1 hop)
	store.addEdge(Edge{From: "a", To: "b", Type: RelDependsOn})
	store.addEdge(Edge{From: "b", To: "c", Type: RelDependsOn})
	store.addEdge(Edge{From: "c", To: "d", Type: RelDependsOn})
	store.addEdge(Edge{From: "a", To: "d", Type: RelDependsOn})

	g := NewGraphTraverser(store, NewNormalizer(), time.Second, 50, 1000)
	res, err := g.Shortest(context.Background(), GraphArgs{
		StartNodes: []string{"a"},
		TargetNode: "d",
		MaxDepth:   10,
		Direction:  DirOut,
		Algorithm:  AlgoShortest,
	})
	if err != nil {
		t.Fatalf("Shortest error: %v", err)
	}
	if !res.Reachable {
		t.Fatal("expected d to be reachable")
	}
	if len(res.IDs) != 2 || res.IDs[0] != "a" || res.IDs[1] != "d" {
		t.Errorf("expected direct path [a d], got %v", res.IDs)
	}
}

func TestShortestUnreachableWithinMaxDepth(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "a"})
	store.addObject(Object{ID: "b"})
	store.addObject(Object{ID: "c"})
	store.addEdge(Edge{From: "a", To: "b", Type: RelDependsOn})
	store.addEdge(Edge{From: "b", To: "c", Type: RelDependsOn})

	g := NewGraphTraverser(store, NewNormalizer(), time.Second, 50, 1000)
	res, err := g.Shortest(context.Background(), GraphArgs{
		StartNodes: []string{"a"},
		TargetNode: "c",
		MaxDepth:   1,
		Direction:  DirOut,
		Algorithm:  AlgoShortest,
	})
	if err != nil {
		t.Fatalf("Shortest error: %v", err)
	}
	if res.Reachable {
		t.Error("expected c to be unreachable within max_depth 1")
	}
}

func TestShortestMissingTargetIsInvalidArgument(t *testing.T) {
	g := NewGraphTraverser(newFakeStore(), NewNormalizer(), time.Second, 50, 1000)
	_, err := g.Shortest(context.Background(), GraphArgs{
		StartNodes: []string{"a"},
		MaxDepth:   1,
		Algorithm:  AlgoShortest,
	})
	kind, ok := KindOf(err)
	if !ok || kind != KindInvalidArgument {
		t.Errorf("expected KindInvalidArgument, got %v, %v", kind, ok)
	}
}

func TestShortestStartEqualsTarget(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "a"})
	g := NewGraphTraverser(store, NewNormalizer(), time.Second, 50, 1000)
	res, err := g.Shortest(context.Background(), GraphArgs{
		StartNodes: []string{"a"},
		TargetNode: "a",
		MaxDepth:   5,
		Direction:  DirOut,
		Algorithm:  AlgoShortest,
	})
	if err != nil {
		t.Fatalf("Shortest error: %v", err)
	}
	if !res.Reachable || len(res.IDs) != 1 || res.IDs[0] != "a" {
		t.Errorf("expected trivial single-node path, got %+v", res)
	}
}
