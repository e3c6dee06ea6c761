package search

import "strings"

// Match reports whether the query is a case-insensitive substring of any of
// the given field values. Absent (empty) fields never match. An empty query
// matches everything. Pure substring test: no stemming, no tokenization.
func Match(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Filter derives a filtered view of records, preserving order. fieldsOf
// names the fixed, entity-specific field subset the query is matched
// against. The result is always a subset of records; an empty query returns
// all of them.
func Filter[T any](records []T, query string, fieldsOf func(T) []string) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		if Match(query, fieldsOf(record)...) {
			out = append(out, record)
		}
	}
	return out
}
