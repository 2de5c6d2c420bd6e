package retrieval

import (
	"testing"
	"time"
)

func TestMatchesFiltersObjectType(t *testing.T) {
	o := Object{Type: TypeDecision}
	if !matchesFilters(o, Filters{}) {
		t.Error("empty filters should match everything")
	}
	if !matchesFilters(o, Filters{ObjectTypes: []string{TypeDecision, TypeSymbol}}) {
		t.Error("expected type to be in allowed set")
	}
	if matchesFilters(o, Filters{ObjectTypes: []string{TypeSymbol}}) {
		t.Error("expected type not in allowed set to be excluded")
	}
}

func TestMatchesFiltersTenantAndProject(t *testing.T) {
	tenant := "tenant-a"
	o := Object{TenantID: "tenant-a", ProjectID: "proj-1"}
	if !matchesFilters(o, Filters{TenantID: &tenant}) {
		t.Error("expected matching tenant to pass")
	}
	other := "tenant-b"
	if matchesFilters(o, Filters{TenantID: &other}) {
		t.Error("expected mismatched tenant to be excluded")
	}
	proj := "proj-1"
	if !matchesFilters(o, Filters{ProjectID: &proj}) {
		t.Error("expected matching project to pass")
	}
}

func TestMatchesFiltersCreatedRange(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	o := Object{CreatedAt: now}
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	if !matchesFilters(o, Filters{CreatedAfter: &before, CreatedBefore: &after}) {
		t.Error("expected object within range to match")
	}
	afterOnly := now.Add(time.Minute)
	if matchesFilters(o, Filters{CreatedAfter: &afterOnly}) {
		t.Error("expected object created before CreatedAfter to be excluded")
	}
}

func TestFilterObjects(t *testing.T) {
	objs := []Object{
		{ID: "1", Type: TypeDecision},
		{ID: "2", Type: TypeSymbol},
	}
	out := filterObjects(objs, Filters{ObjectTypes: []string{TypeDecision}})
	if len(out) != 1 || out[0].ID != "1" {
		t.Errorf("filterObjects = %+v", out)
	}
}
