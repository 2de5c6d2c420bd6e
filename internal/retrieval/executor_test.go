package retrieval

import (
	"context"
	"testing"
	"time"
)

func newTestExecutor(store Store, embedder EmbeddingProvider) *HybridExecutor {
	norm := NewNormalizer()
	text := NewTextSearcher(store, norm)
	vector := NewVectorSearcher(store, embedder)
	graph := NewGraphTraverser(store, norm, time.Second, 50, 1000)
	return NewHybridExecutor(text, vector, graph, norm, DefaultGlobalDeadline, DefaultArmSoftCap)
}

func TestExecutorRunsTextArmAndScores(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "1", Name: "password", UpdatedAt: time.Now()})

	ex := newTestExecutor(store, NoEmbeddingProvider())
	planner := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, err := planner.Plan(QueryRequest{Text: "password"})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}

	rm, status, _ := ex.Execute(context.Background(), plan, 10)
	if status["text"].State != ArmRan {
		t.Errorf("expected text arm to run, got %+v", status["text"])
	}
	if status["vector"].State != ArmSkipped {
		t.Errorf("expected vector arm to be skipped, got %+v", status["vector"])
	}
	snap := rm.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 entry in result map, got %d", len(snap))
	}
}

func TestExecutorVectorArmFailureDoesNotAbortText(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "1", Name: "password"})
	store.fail["QueryObjectsBySimilarity"] = DatabaseError("test", errBoom)

	ex := newTestExecutor(store, NoEmbeddingProvider())
	planner := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, _ := planner.Plan(QueryRequest{Text: "password", Vector: []float32{1, 0}})

	rm, status, _ := ex.Execute(context.Background(), plan, 10)
	if status["text"].State != ArmRan {
		t.Errorf("expected text arm to still run, got %+v", status["text"])
	}
	if status["vector"].State != ArmFailed {
		t.Errorf("expected vector arm to be marked failed, got %+v", status["vector"])
	}
	if len(rm.Snapshot()) != 1 {
		t.Error("expected text arm's partial result to be retained")
	}
}

func TestExecutorAutoseedsGraphFromPhaseOne(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "root", Name: "password", UpdatedAt: time.Now()})
	store.addObject(Object{ID: "child"})
	store.addEdge(Edge{From: "root", To: "child", Type: RelDependsOn})

	ex := newTestExecutor(store, NoEmbeddingProvider())
	planner := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, _ := planner.Plan(QueryRequest{Text: "password", GraphAutoseed: true})

	rm, status, _ := ex.Execute(context.Background(), plan, 10)
	if status["graph"].State != ArmRan {
		t.Errorf("expected graph arm to run from autoseed, got %+v", status["graph"])
	}
	snap := rm.Snapshot()
	found := false
	for _, e := range snap {
		if e.object.ID == "child" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected autoseeded graph traversal to discover child, got %+v", snap)
	}
}

func TestExecutorShortestUnreachableIsRanNotFailed(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "a"})
	store.addObject(Object{ID: "b"})
	// no edge between a and b

	ex := newTestExecutor(store, NoEmbeddingProvider())
	planner := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, err := planner.Plan(QueryRequest{
		Graph: &GraphArgs{StartNodes: []string{"a"}, TargetNode: "b", Algorithm: AlgoShortest, MaxDepth: 3},
	})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}

	_, status, _ := ex.Execute(context.Background(), plan, 10)
	if status["graph"].State != ArmRan || status["graph"].Reason != "unreachable" {
		t.Errorf("expected Ran(unreachable), got %+v", status["graph"])
	}
}
