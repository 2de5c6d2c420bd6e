package retrieval

import (
	"context"
	"testing"
	"time"
)

func TestTextSearchScoresByFieldKind(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "1", Name: "password", UpdatedAt: time.Now()})
	store.addObject(Object{ID: "2", Name: "password-manager", UpdatedAt: time.Now()})
	store.addObject(Object{ID: "3", Documentation: "stores the password securely", UpdatedAt: time.Now()})
	store.addObject(Object{ID: "4", Content: "the password field", UpdatedAt: time.Now()})

	ts := NewTextSearcher(store, NewNormalizer())
	matches, err := ts.Search(context.Background(), "password", Filters{}, 10)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(matches))
	}
	// exact name match must rank first
	if matches[0].object.ID != "1" || matches[0].score != 1.0 {
		t.Errorf("expected exact match first, got %+v", matches[0])
	}
	if matches[0].field != fieldName {
		t.Errorf("expected fieldName, got %v", matches[0].field)
	}
}

func TestTextSearchEmptyQuery(t *testing.T) {
	store := newFakeStore()
	ts := NewTextSearcher(store, NewNormalizer())
	matches, err := ts.Search(context.Background(), "   ", Filters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches != nil {
		t.Errorf("expected nil matches for blank query, got %+v", matches)
	}
}

func TestTextSearchNoMatchIsExcluded(t *testing.T) {
	store := newFakeStore()
	store.addObject(Object{ID: "1", Name: "unrelated"})
	ts := NewTextSearcher(store, NewNormalizer())
	matches, err := ts.Search(context.Background(), "password", Filters{}, 10)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %+v", matches)
	}
}

func TestTextSearchPropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.fail["QueryObjects"] = DatabaseError("test", errBoom)
	ts := NewTextSearcher(store, NewNormalizer())
	_, err := ts.Search(context.Background(), "password", Filters{}, 10)
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if kind, ok := KindOf(err); !ok || kind != KindDatabaseError {
		t.Errorf("expected KindDatabaseError, got %v (ok=%v)", kind, ok)
	}
}
