package retrieval

import "sync"

// entry is the accumulator state kept per normalized object id.
type entry struct {
	object          Object
	textScore       *float64
	textField       textFieldKind
	textQuery       string
	vectorScore     *float64
	graphScore      *float64
	graphDepth      *int
	contributingArms map[string]bool
}

// ResultMap is the identity-keyed accumulator (C1) that merges per-modality
// scores into one set. Writes are idempotent with respect to re-observing
// the same id from the same arm: the higher score is kept, and the object
// snapshot is kept from the first arm that produced it. Access is serialized
// behind a single mutex; the executor never holds the lock across a store
// call.
type ResultMap struct {
	mu      sync.Mutex
	entries map[string]*entry
	norm    *Normalizer
}

// NewResultMap constructs an empty ResultMap.
func NewResultMap(norm *Normalizer) *ResultMap {
	return &ResultMap{entries: make(map[string]*entry), norm: norm}
}

// PutText records a text-arm observation, along with the field kind the
// match was found in and the original query string, used later to build the
// "matched 'x' in name" explanation.
func (r *ResultMap) PutText(o Object, score float64, field textFieldKind, query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.getOrCreate(o)
	if e.textScore == nil || score > *e.textScore {
		e.textScore = &score
		e.textField = field
		e.textQuery = query
	}
	e.contributingArms["text"] = true
}

// PutVector records a vector-arm observation.
func (r *ResultMap) PutVector(o Object, score float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.getOrCreate(o)
	if e.vectorScore == nil || score > *e.vectorScore {
		e.vectorScore = &score
	}
	e.contributingArms["vector"] = true
}

// PutGraph records a graph-arm observation, keeping the shallower depth (and
// correspondingly higher score) on repeated observation.
func (r *ResultMap) PutGraph(o Object, score float64, depth int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.getOrCreate(o)
	if e.graphScore == nil || score > *e.graphScore {
		e.graphScore = &score
		e.graphDepth = &depth
	}
	e.contributingArms["graph"] = true
}

func (r *ResultMap) getOrCreate(o Object) *entry {
	id := r.norm.Normalize(o.ID)
	e, ok := r.entries[id]
	if !ok {
		e = &entry{object: o, contributingArms: make(map[string]bool)}
		r.entries[id] = e
	}
	return e
}

// snapshotEntry is what the scorer consumes; it is a plain copy so the
// scorer never touches ResultMap's internal locking.
type snapshotEntry struct {
	object           Object
	textScore        *float64
	textField        textFieldKind
	textQuery        string
	vectorScore      *float64
	graphScore       *float64
	graphDepth       *int
	contributingArms map[string]bool
}

// Snapshot returns an unordered copy of the accumulated entries. Insertion
// order is not significant per §4.7; ordering is imposed later by the
// scorer's sort.
func (r *ResultMap) Snapshot() []snapshotEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]snapshotEntry, 0, len(r.entries))
	for _, e := range r.entries {
		arms := make(map[string]bool, len(e.contributingArms))
		for k, v := range e.contributingArms {
			arms[k] = v
		}
		out = append(out, snapshotEntry{
			object:           e.object,
			textScore:        e.textScore,
			textField:        e.textField,
			textQuery:        e.textQuery,
			vectorScore:      e.vectorScore,
			graphScore:       e.graphScore,
			graphDepth:       e.graphDepth,
			contributingArms: arms,
		})
	}
	return out
}
