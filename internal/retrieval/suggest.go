package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggestion is one "did you mean" candidate, carrying the object it came
// from so a caller can offer a direct follow-up lookup.
type Suggestion struct {
	Object   Object
	Matched  string // the name/title that was compared against the query
	Distance int
}

// maxSuggestionDistance bounds how different a candidate may be from the
// query before it stops being a useful suggestion. Past this the edit
// distance is usually just noise between unrelated names.
const maxSuggestionDistance = 4

// maxSuggestionCandidates caps how many objects are pulled from the store to
// compare against, so a fuzzy-suggest pass on an empty hit never turns into
// an unbounded full-table scan.
const maxSuggestionCandidates = 500

// maxSuggestions is how many "did you mean" results are returned.
const maxSuggestions = 5

// Suggester produces fuzzy "did you mean" suggestions over known object
// names, adapted from the edit-distance helper the teacher's tools used for
// fuzzy alternative lookups — used here as an aid the Explainer reaches for
// when the text arm comes back empty, not as a standalone tool.
type Suggester struct {
	store Store
}

// NewSuggester constructs a Suggester.
func NewSuggester(store Store) *Suggester {
	return &Suggester{store: store}
}

// Suggest returns up to maxSuggestions near-matches for query among objects
// visible under f, ordered by ascending edit distance then name. It is meant
// to be called only after the text arm returned zero hits; it performs one
// additional store call.
func (s *Suggester) Suggest(ctx context.Context, query string, f Filters) ([]Suggestion, error) {
	candidates, err := s.store.QueryObjects(ctx, "", f, maxSuggestionCandidates)
	if err != nil {
		return nil, DatabaseError("suggest.queryObjects", err)
	}

	normalizedQuery := normalizeForDistance(query)

	var all []Suggestion
	for _, o := range candidates {
		for _, field := range []string{o.Name, o.Title} {
			if field == "" {
				continue
			}
			d := levenshtein.ComputeDistance(normalizedQuery, normalizeForDistance(field))
			if d > maxSuggestionDistance {
				continue
			}
			all = append(all, Suggestion{Object: o, Matched: field, Distance: d})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].Matched < all[j].Matched
	})

	if len(all) > maxSuggestions {
		all = all[:maxSuggestions]
	}
	return all, nil
}

func normalizeForDistance(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
