package retrieval

import (
	"context"
	"math"
	"sort"
	"strings"
)

// fakeStore is an in-memory Store double used across this package's tests.
// It implements the same contract a SurrealDB-backed store does, without a
// live database: substring containment for QueryObjects, cosine similarity
// for QueryObjectsBySimilarity, and adjacency-list lookups for
// QueryNeighbors and FetchObjects.
type fakeStore struct {
	objects map[string]Object
	edges   []Edge
	fail    map[string]error // method name -> error to return instead of normal behavior
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]Object), fail: make(map[string]error)}
}

func (f *fakeStore) addObject(o Object) {
	f.objects[o.ID] = o
}

func (f *fakeStore) addEdge(e Edge) {
	f.edges = append(f.edges, e)
}

func (f *fakeStore) QueryObjects(ctx context.Context, substring string, filt Filters, limit int) ([]Object, error) {
	if err, ok := f.fail["QueryObjects"]; ok {
		return nil, err
	}
	needle := strings.ToLower(substring)
	var out []Object
	for _, o := range f.objects {
		if needle != "" && !containsAny(o, needle) {
			continue
		}
		if !matchesFilters(o, filt) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func containsAny(o Object, needle string) bool {
	fields := []string{o.Name, o.Title, o.Signature, o.Documentation, o.Summary, o.Description, o.Content, o.Outputs}
	for _, fld := range fields {
		if strings.Contains(strings.ToLower(fld), needle) {
			return true
		}
	}
	return false
}

func (f *fakeStore) QueryObjectsBySimilarity(ctx context.Context, vector []float32, filt Filters, limit int) ([]ScoredObject, error) {
	if err, ok := f.fail["QueryObjectsBySimilarity"]; ok {
		return nil, err
	}
	var out []ScoredObject
	for _, o := range f.objects {
		if len(o.Embedding) == 0 {
			continue
		}
		if !matchesFilters(o, filt) {
			continue
		}
		out = append(out, ScoredObject{Object: o, Similarity: cosine(vector, o.Embedding)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Object.ID < out[j].Object.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cosine(a []float32, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func (f *fakeStore) QueryNeighbors(ctx context.Context, nodeID string, relationType string, direction Direction) ([]Object, error) {
	if err, ok := f.fail["QueryNeighbors"]; ok {
		return nil, err
	}
	var out []Object
	for _, e := range f.edges {
		if e.Type != relationType {
			continue
		}
		switch direction {
		case DirOut:
			if e.From == nodeID {
				if o, ok := f.objects[e.To]; ok {
					out = append(out, o)
				}
			}
		case DirIn:
			if e.To == nodeID {
				if o, ok := f.objects[e.From]; ok {
					out = append(out, o)
				}
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FetchObjects(ctx context.Context, ids []string) ([]Object, error) {
	if err, ok := f.fail["FetchObjects"]; ok {
		return nil, err
	}
	var out []Object
	for _, id := range ids {
		if o, ok := f.objects[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// fakeEmbedder is a deterministic EmbeddingProvider double: it hashes text
// into a fixed-dimension vector so equal strings embed identically and
// distinct strings (almost always) don't.
type fakeEmbedder struct {
	enabled bool
	dim     int
	failErr error
}

func (f *fakeEmbedder) IsEnabled() bool { return f.enabled }
func (f *fakeEmbedder) Dimension() int  { return f.dim }
func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	out := make([]float32, f.dim)
	for i, r := range text {
		out[i%f.dim] += float32(r)
	}
	return out, nil
}
