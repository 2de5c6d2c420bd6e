package retrieval

import "testing"

func TestPlanTextOnlySingleMode(t *testing.T) {
	p := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, err := p.Plan(QueryRequest{Text: "password", Hybrid: false})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if !plan.RunText || plan.RunVector || plan.RunGraph {
		t.Errorf("expected only text arm enabled, got %+v", plan)
	}
	if !plan.SingleMode {
		t.Error("expected single-mode for a lone text arm with hybrid=false")
	}
}

func TestPlanTextDerivesVectorWhenEmbedderEnabled(t *testing.T) {
	embedder := &fakeEmbedder{enabled: true, dim: 4}
	p := NewQueryPlanner(embedder, 0)
	plan, err := p.Plan(QueryRequest{Text: "password", Hybrid: true})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if !plan.RunVector || !plan.VectorFromText {
		t.Errorf("expected vector arm derived from text, got %+v", plan)
	}
}

func TestPlanExplicitGraphArgsDefaulted(t *testing.T) {
	p := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, err := p.Plan(QueryRequest{
		Graph: &GraphArgs{StartNodes: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if !plan.RunGraph {
		t.Fatal("expected graph arm to run")
	}
	if plan.GraphArgs.MaxDepth != 1 || plan.GraphArgs.Direction != DirOut || plan.GraphArgs.Algorithm != AlgoCollect {
		t.Errorf("expected defaulted graph args, got %+v", plan.GraphArgs)
	}
}

func TestPlanShortestWithoutTargetIsInvalid(t *testing.T) {
	p := NewQueryPlanner(NoEmbeddingProvider(), 0)
	_, err := p.Plan(QueryRequest{
		Graph: &GraphArgs{StartNodes: []string{"a"}, Algorithm: AlgoShortest},
	})
	kind, ok := KindOf(err)
	if !ok || kind != KindInvalidArgument {
		t.Errorf("expected KindInvalidArgument, got %v, %v", kind, ok)
	}
}

func TestPlanShortestWithoutTargetNoStartNodesStillInvalid(t *testing.T) {
	p := NewQueryPlanner(NoEmbeddingProvider(), 0)
	_, err := p.Plan(QueryRequest{
		Graph: &GraphArgs{Algorithm: AlgoShortest},
	})
	kind, ok := KindOf(err)
	if !ok || kind != KindInvalidArgument {
		t.Errorf("expected KindInvalidArgument even without start nodes yet, got %v, %v", kind, ok)
	}
}

func TestPlanAutoseedDefersGraph(t *testing.T) {
	p := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, err := p.Plan(QueryRequest{Text: "password", GraphAutoseed: true})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if !plan.RunGraph || !plan.GraphDeferred {
		t.Errorf("expected deferred autoseeded graph arm, got %+v", plan)
	}
}

func TestPlanAutoseedNoopWithoutTextOrVector(t *testing.T) {
	p := NewQueryPlanner(NoEmbeddingProvider(), 0)
	plan, err := p.Plan(QueryRequest{GraphAutoseed: true})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if plan.RunGraph {
		t.Error("autoseed should not enable graph arm without text or vector")
	}
}

func TestTopKSeedsOrdersByScoreThenID(t *testing.T) {
	norm := NewNormalizer()
	text := []textMatch{
		{object: Object{ID: "a"}, score: 0.5},
		{object: Object{ID: "b"}, score: 0.9},
	}
	vec := []ScoredObject{
		{Object: Object{ID: "c"}, Similarity: 0.9},
	}
	seeds := TopKSeeds(norm, text, vec, 2)
	if len(seeds) != 2 {
		t.Fatalf("expected top 2, got %v", seeds)
	}
	if seeds[0] != "b" || seeds[1] != "c" {
		t.Errorf("expected the two 0.9 seeds ordered by id [b c], got %v", seeds)
	}
}
