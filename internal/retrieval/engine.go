package retrieval

import (
	"context"
	"time"
)

// Engine wires C5 (QueryPlanner) through C6 (HybridExecutor) into C7
// (Scorer), and owns the suggestion fallback for empty hits. It is the
// single call a tool surface needs: one QueryRequest in, one QueryResponse
// out, with TraceID/ExecutionTimeMS stamped for the caller.
type Engine struct {
	planner   *QueryPlanner
	executor  *HybridExecutor
	scorer    *Scorer
	suggester *Suggester
}

// EngineConfig collects the tunables an Engine needs at construction time.
// Zero-valued fields fall back to the package defaults used throughout this
// file's constructors.
type EngineConfig struct {
	Embedder EmbeddingProvider

	AutoseedTopK   int
	CollectNodeCap int
	AllPathsCap    int

	GraphStepTimeout time.Duration
	GlobalDeadline   time.Duration
	ArmSoftCap       time.Duration

	Weights Weights
}

// NewEngine builds the full arm set (text, vector, graph) against store and
// assembles an Engine ready to run queries.
func NewEngine(store Store, cfg EngineConfig) (*Engine, error) {
	embedder := cfg.Embedder
	if embedder == nil {
		embedder = NoEmbeddingProvider()
	}

	collectCap := cfg.CollectNodeCap
	if collectCap <= 0 {
		collectCap = DefaultCollectNodeCap
	}
	allPathsCap := cfg.AllPathsCap
	if allPathsCap <= 0 {
		allPathsCap = DefaultAllPathsCap
	}
	stepTimeout := cfg.GraphStepTimeout
	if stepTimeout <= 0 {
		stepTimeout = DefaultGraphStepCap
	}

	weights := cfg.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights
	}

	norm := NewNormalizer()
	planner := NewQueryPlanner(embedder, cfg.AutoseedTopK)
	text := NewTextSearcher(store, norm)
	vector := NewVectorSearcher(store, embedder)
	graph := NewGraphTraverser(store, norm, stepTimeout, collectCap, allPathsCap)
	executor := NewHybridExecutor(text, vector, graph, norm, cfg.GlobalDeadline, cfg.ArmSoftCap)

	scorer, err := NewScorer(weights)
	if err != nil {
		return nil, err
	}

	return &Engine{
		planner:   planner,
		executor:  executor,
		scorer:    scorer,
		suggester: NewSuggester(store),
	}, nil
}

// Run plans, executes and scores req, returning a fully stamped
// QueryResponse. When the result set is empty and a text query was given,
// it also populates suggestions via Suggest so callers can surface a
// "did you mean" to the agent without a second round trip.
func (e *Engine) Run(ctx context.Context, req QueryRequest) (QueryResponse, []Suggestion, error) {
	start := time.Now()

	plan, err := e.planner.Plan(req)
	if err != nil {
		return QueryResponse{}, nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	rm, status, timings := e.executor.Execute(ctx, plan, limit)
	results := e.scorer.Score(rm.Snapshot(), req.GraphIntersect, limit)

	resp := QueryResponse{
		Results:         results,
		TotalCount:      len(results),
		ExecutionTimeMS: time.Since(start).Milliseconds(),
		TraceID:         NewTraceID(),
		PerArmStatus:    status,
		ArmTimings:      timings,
	}

	var suggestions []Suggestion
	if len(results) == 0 && req.Text != "" {
		suggestions, _ = e.suggester.Suggest(ctx, req.Text, req.Filters)
	}

	return resp, suggestions, nil
}
