package retrieval

import "sort"

// ExecutionPlan describes which arms run and with what inputs, as decided
// by the QueryPlanner from a QueryRequest.
type ExecutionPlan struct {
	Request QueryRequest

	RunText   bool
	TextQuery string

	RunVector     bool
	VectorInput   []float32
	VectorFromText bool // true when the vector must be derived from Request.Text

	// RunGraph is true when a graph arm (explicit or autoseeded) will run.
	RunGraph bool
	// GraphDeferred is true when the graph arm's start_nodes are not known
	// yet — they are computed from the first-phase text+vector union once
	// that phase completes (autoseed).
	GraphDeferred bool
	GraphArgs     GraphArgs

	// AutoseedTopK is how many phase-one ids seed a deferred graph arm.
	AutoseedTopK int

	SingleMode bool // hybrid=false and exactly one arm enabled

	Intersect bool
}

// QueryPlanner is C5: it inspects a QueryRequest and emits an ExecutionPlan.
type QueryPlanner struct {
	embedder    EmbeddingProvider
	autoseedTopK int
}

// NewQueryPlanner constructs a QueryPlanner. autoseedTopK overrides
// DefaultAutoseedTopK when positive.
func NewQueryPlanner(embedder EmbeddingProvider, autoseedTopK int) *QueryPlanner {
	if autoseedTopK <= 0 {
		autoseedTopK = DefaultAutoseedTopK
	}
	return &QueryPlanner{embedder: embedder, autoseedTopK: autoseedTopK}
}

// Plan builds the ExecutionPlan per the rules in §4.5, or returns an
// InvalidArgument error when the request itself is malformed.
func (p *QueryPlanner) Plan(req QueryRequest) (ExecutionPlan, error) {
	plan := ExecutionPlan{Request: req, Intersect: req.GraphIntersect}

	// Rule 1: text arm.
	if req.Text != "" {
		plan.RunText = true
		plan.TextQuery = req.Text
	}

	// Rule 2: vector arm.
	if len(req.Vector) > 0 {
		plan.RunVector = true
		plan.VectorInput = req.Vector
	} else if req.Text != "" && p.embedder.IsEnabled() {
		plan.RunVector = true
		plan.VectorFromText = true
	}

	// Rule 3: explicit graph arm.
	if req.Graph != nil && len(req.Graph.StartNodes) > 0 {
		args := applyGraphDefaults(*req.Graph)
		if err := validateGraphArgs(args); err != nil {
			return ExecutionPlan{}, err
		}
		plan.RunGraph = true
		plan.GraphArgs = args
	} else if req.Graph != nil && req.Graph.Algorithm == AlgoShortest && req.Graph.TargetNode == "" {
		// Rule 7 also applies even without start nodes supplied yet.
		return ExecutionPlan{}, InvalidArgument("planner.plan", "target_node is required for Shortest")
	}

	armsEnabled := boolToInt(plan.RunText) + boolToInt(plan.RunVector) + boolToInt(plan.RunGraph)

	// Rule 5: autoseed — only when no explicit graph arm and at least one
	// of text/vector is enabled.
	if req.GraphAutoseed && !plan.RunGraph && (plan.RunText || plan.RunVector) {
		plan.RunGraph = true
		plan.GraphDeferred = true
		plan.AutoseedTopK = p.autoseedTopK
		plan.GraphArgs = GraphArgs{
			MaxDepth:      1,
			Direction:     DirBoth,
			Algorithm:     AlgoCollect,
			RelationTypes: nil, // default subset
		}
		armsEnabled++
	}

	// Rule 4: single-mode when hybrid=false and exactly one arm enabled.
	if !req.Hybrid && armsEnabled == 1 {
		plan.SingleMode = true
	}

	return plan, nil
}

// applyGraphDefaults fills the §4.5 rule-3 defaults for any zero-valued
// GraphArgs field.
func applyGraphDefaults(args GraphArgs) GraphArgs {
	if args.MaxDepth == 0 {
		args.MaxDepth = 1
	}
	if args.Direction == "" {
		args.Direction = DirOut
	}
	if args.Algorithm == "" {
		args.Algorithm = AlgoCollect
	}
	return args
}

func validateGraphArgs(args GraphArgs) error {
	if args.MaxDepth < 1 || args.MaxDepth > MaxAllowedDepth {
		return InvalidArgument("planner.validateGraph", "max_depth %d out of range [1, %d]", args.MaxDepth, MaxAllowedDepth)
	}
	if args.Algorithm == AlgoShortest && args.TargetNode == "" {
		return InvalidArgument("planner.validateGraph", "target_node is required for Shortest")
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scoredSeed struct {
	id    string
	score float64
}

// TopKSeeds extracts up to k distinct normalized ids from a set of text and
// vector results, in descending score order, for the autoseed rule (P10).
func TopKSeeds(norm *Normalizer, textMatches []textMatch, vectorMatches []ScoredObject, k int) []string {
	seen := make(map[string]float64)
	for _, m := range textMatches {
		id := norm.Normalize(m.object.ID)
		if s, ok := seen[id]; !ok || m.score > s {
			seen[id] = m.score
		}
	}
	for _, m := range vectorMatches {
		id := norm.Normalize(m.Object.ID)
		if s, ok := seen[id]; !ok || m.Similarity > s {
			seen[id] = m.Similarity
		}
	}

	all := make([]scoredSeed, 0, len(seen))
	for id, s := range seen {
		all = append(all, scoredSeed{id: id, score: s})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].id < all[j].id
	})

	if k <= 0 || k > len(all) {
		k = len(all)
	}
	out := make([]string, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, all[i].id)
	}
	return out
}
