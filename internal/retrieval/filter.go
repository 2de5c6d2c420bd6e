package retrieval

// matchesFilters compiles the Filters record to a boolean predicate and
// applies it to a single object. Arms push filters into the store where the
// store can evaluate them (see the SurrealQL WHERE fragments built in
// internal/storage); anything not pushed down is applied here before a
// result reaches the ResultMap, so a fully-filtered result never reaches the
// scorer (the C8 contract).
func matchesFilters(o Object, f Filters) bool {
	if len(f.ObjectTypes) > 0 && !containsString(f.ObjectTypes, o.Type) {
		return false
	}
	if f.ProjectID != nil && o.ProjectID != *f.ProjectID {
		return false
	}
	if f.TenantID != nil && o.TenantID != *f.TenantID {
		return false
	}
	if f.CreatedAfter != nil && o.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && o.CreatedAt.After(*f.CreatedBefore) {
		return false
	}
	return true
}

func filterObjects(objs []Object, f Filters) []Object {
	out := objs[:0:0]
	for _, o := range objs {
		if matchesFilters(o, f) {
			out = append(out, o)
		}
	}
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
