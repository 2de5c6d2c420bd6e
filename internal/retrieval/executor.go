package retrieval

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default timeouts from §5.
const (
	DefaultGlobalDeadline = 5 * time.Second
	DefaultArmSoftCap     = 3 * time.Second
	DefaultGraphStepCap   = 1 * time.Second
)

// HybridExecutor is C6: it runs the arms an ExecutionPlan selected,
// concurrently, under a global deadline, tolerating per-arm failure. The
// teacher's job manager (internal/indexer) hand-rolls a sync.WaitGroup and
// channel-based worker pool for a conceptually similar "run N tasks, collect
// what finished" shape; errgroup.WithContext is the idiomatic fit for this
// specific pattern — launch a bounded set of tasks, cancel the rest when the
// shared deadline fires, collect partial results — and is used here instead.
type HybridExecutor struct {
	text   *TextSearcher
	vector *VectorSearcher
	graph  *GraphTraverser
	norm   *Normalizer

	globalDeadline time.Duration
	armSoftCap     time.Duration
}

// NewHybridExecutor constructs a HybridExecutor. Zero durations fall back to
// the §5 defaults.
func NewHybridExecutor(text *TextSearcher, vector *VectorSearcher, graph *GraphTraverser, norm *Normalizer, globalDeadline, armSoftCap time.Duration) *HybridExecutor {
	if globalDeadline <= 0 {
		globalDeadline = DefaultGlobalDeadline
	}
	if armSoftCap <= 0 {
		armSoftCap = DefaultArmSoftCap
	}
	return &HybridExecutor{text: text, vector: vector, graph: graph, norm: norm, globalDeadline: globalDeadline, armSoftCap: armSoftCap}
}

// Execute runs plan to completion (or until the global deadline strikes) and
// returns the accumulated ResultMap, per-arm status, and per-arm timings.
// It never holds a lock across a store call: each arm writes into rm
// through rm's own mutex as results become available.
func (ex *HybridExecutor) Execute(ctx context.Context, plan ExecutionPlan, limitPerArm int) (*ResultMap, map[string]ArmStatus, map[string]time.Duration) {
	rm := NewResultMap(ex.norm)
	status := make(map[string]ArmStatus)
	timings := make(map[string]time.Duration)
	var statusMu sync.Mutex

	setStatus := func(arm string, st ArmStatus, elapsed time.Duration) {
		statusMu.Lock()
		defer statusMu.Unlock()
		status[arm] = st
		timings[arm] = elapsed
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, ex.globalDeadline)
	defer cancel()

	var textMatches []textMatch
	var vectorMatches []ScoredObject

	// Phase one: text and vector, concurrently.
	if plan.RunText || plan.RunVector {
		g, gctx := errgroup.WithContext(deadlineCtx)

		if plan.RunText {
			g.Go(func() error {
				start := time.Now()
				armCtx, armCancel := context.WithTimeout(gctx, ex.armSoftCap)
				defer armCancel()
				matches, err := ex.text.Search(armCtx, plan.TextQuery, plan.Request.Filters, limitPerArm)
				elapsed := time.Since(start)
				if err != nil {
					st := classifyArmError(err)
					setStatus("text", st, elapsed)
					return nil // per-arm failure never fails the whole query
				}
				textMatches = matches
				for _, m := range matches {
					rm.PutText(m.object, m.score, m.field, plan.TextQuery)
				}
				setStatus("text", ArmStatus{State: ArmRan}, elapsed)
				return nil
			})
		} else {
			status["text"] = ArmStatus{State: ArmSkipped}
		}

		if plan.RunVector {
			g.Go(func() error {
				start := time.Now()
				armCtx, armCancel := context.WithTimeout(gctx, ex.armSoftCap)
				defer armCancel()

				vec := plan.VectorInput
				if plan.VectorFromText {
					var err error
					vec, err = ex.vector.EmbedQuery(armCtx, plan.Request.Text)
					if err != nil {
						elapsed := time.Since(start)
						setStatus("vector", ArmStatus{State: ArmSkipped, Reason: "embedding_unavailable"}, elapsed)
						return nil
					}
				}

				matches, err := ex.vector.Search(armCtx, vec, plan.Request.Filters, limitPerArm)
				elapsed := time.Since(start)
				if err != nil {
					setStatus("vector", classifyArmError(err), elapsed)
					return nil
				}
				vectorMatches = matches
				for _, m := range matches {
					rm.PutVector(m.Object, m.Similarity)
				}
				setStatus("vector", ArmStatus{State: ArmRan}, elapsed)
				return nil
			})
		} else {
			status["vector"] = ArmStatus{State: ArmSkipped}
		}

		_ = g.Wait()
	} else {
		status["text"] = ArmStatus{State: ArmSkipped}
		status["vector"] = ArmStatus{State: ArmSkipped}
	}

	// Phase two: graph, possibly seeded from phase one.
	if plan.RunGraph {
		args := plan.GraphArgs
		if plan.GraphDeferred {
			seeds := TopKSeeds(ex.norm, textMatches, vectorMatches, plan.AutoseedTopK)
			args.StartNodes = seeds
			if len(seeds) == 0 {
				status["graph"] = ArmStatus{State: ArmSkipped, Reason: "no_seeds"}
			}
		}

		if len(args.StartNodes) > 0 {
			start := time.Now()
			armCtx, armCancel := context.WithTimeout(deadlineCtx, ex.armSoftCap)
			outcome, err := ex.graph.RunGraphArm(armCtx, args, 0)
			armCancel()
			elapsed := time.Since(start)

			switch {
			case err != nil:
				setStatus("graph", classifyArmError(err), elapsed)
			case outcome.unreachable:
				setStatus("graph", ArmStatus{State: ArmRan, Reason: "unreachable"}, elapsed)
			default:
				for _, e := range outcome.entries {
					if !matchesFilters(e.object, plan.Request.Filters) {
						continue
					}
					rm.PutGraph(e.object, e.score, e.depth)
				}
				reason := ""
				if outcome.truncated {
					reason = "truncated"
				}
				setStatus("graph", ArmStatus{State: ArmRan, Reason: reason}, elapsed)
			}
		}
	} else {
		status["graph"] = ArmStatus{State: ArmSkipped}
	}

	slog.Debug("hybrid executor finished", "status", status)
	return rm, status, timings
}

func classifyArmError(err error) ArmStatus {
	kind, ok := KindOf(err)
	if !ok {
		return ArmStatus{State: ArmFailed, Reason: err.Error()}
	}
	switch kind {
	case KindTimeout:
		return ArmStatus{State: ArmTimeout, Reason: err.Error()}
	case KindEmbeddingError:
		return ArmStatus{State: ArmSkipped, Reason: "embedding_unavailable"}
	default:
		return ArmStatus{State: ArmFailed, Reason: err.Error()}
	}
}
