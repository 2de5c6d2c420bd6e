package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// textFieldKind classifies which field a match was found in, for scoring
// and for the explanation string.
type textFieldKind string

const (
	fieldName    textFieldKind = "name"
	fieldDoc     textFieldKind = "documentation"
	fieldOther   textFieldKind = "other"
	fieldNoMatch textFieldKind = ""
)

// textMatch records where and how well a single object matched.
type textMatch struct {
	object Object
	score  float64
	field  textFieldKind
}

// TextSearcher is C2: a case-folded substring filter over an object's
// textual fields, with a piecewise-constant score keyed to where the match
// occurred.
type TextSearcher struct {
	store Store
	norm  *Normalizer
}

// NewTextSearcher constructs a TextSearcher against store.
func NewTextSearcher(store Store, norm *Normalizer) *TextSearcher {
	return &TextSearcher{store: store, norm: norm}
}

// Search runs the text arm. If text is empty the caller should not invoke
// this at all (the planner enforces that); Search itself also treats empty
// input as "no results" defensively.
func (t *TextSearcher) Search(ctx context.Context, text string, f Filters, limitPerArm int) ([]textMatch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	cleaned := escapeControlChars(text)

	objs, err := t.store.QueryObjects(ctx, cleaned, f, limitPerArm)
	if err != nil {
		return nil, DatabaseError("text.search", err)
	}

	needle := strings.ToLower(cleaned)
	matches := make([]textMatch, 0, len(objs))
	for _, o := range objs {
		score, field := scoreTextMatch(o, needle)
		if field == fieldNoMatch {
			continue
		}
		matches = append(matches, textMatch{object: o, score: score, field: field})
	}

	// Ties are broken by the more recent updated_at (§4.2); the final
	// cross-arm ordering happens in the scorer, but the arm itself returns
	// its own slice pre-sorted for determinism in single-mode queries.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].object.UpdatedAt.After(matches[j].object.UpdatedAt)
	})

	if limitPerArm > 0 && len(matches) > limitPerArm {
		matches = matches[:limitPerArm]
	}

	slog.Debug("text arm completed", "query", text, "matched", len(matches))
	return matches, nil
}

// scoreTextMatch never panics on an object missing some of the optional
// text fields — each check is a plain string comparison against the zero
// value, which is always a safe (non-matching, unless needle is empty) no-op.
func scoreTextMatch(o Object, needle string) (float64, textFieldKind) {
	if needle == "" {
		return 0, fieldNoMatch
	}

	if strings.EqualFold(o.Name, needle) || strings.EqualFold(o.Title, needle) {
		return 1.0, fieldName
	}
	if containsFold(o.Name, needle) || containsFold(o.Title, needle) {
		return 0.8, fieldName
	}
	if containsFold(o.Documentation, needle) || containsFold(o.Description, needle) || containsFold(o.Summary, needle) {
		return 0.6, fieldDoc
	}
	for _, other := range []string{o.Signature, o.Content, o.Outputs} {
		if containsFold(other, needle) {
			return 0.4, fieldOther
		}
	}
	return 0, fieldNoMatch
}

func containsFold(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
