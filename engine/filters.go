package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// FILTERS — Column equality filtering via RecordView
// ============================================================================
// Single-pass filter: checks every column constraint per row in one loop.
// Returns a SubView (index list into parent), zero data copy.
// ============================================================================

// Filters restricts rows by column value. Columns are AND-combined; values
// within a column are OR-combined. Matching is case-insensitive on the
// cell's string form.
type Filters map[string][]string

// IsEmpty reports whether f restricts nothing.
func (f Filters) IsEmpty() bool {
	for _, allowed := range f {
		if len(allowed) > 0 {
			return false
		}
	}
	return true
}

// ParseFilter parses "column=value" and adds it to f.
func (f Filters) ParseFilter(expr string) error {
	col, val, ok := strings.Cut(expr, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return fmt.Errorf("filter %q: want column=value", expr)
	}
	f[col] = append(f[col], strings.TrimSpace(val))
	return nil
}

// ApplyFilters returns a view of records matching all column filters.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for col, allowed := range filters {
		if len(allowed) > 0 {
			sets[col] = toLowerSet(allowed)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for col, set := range sets {
			if !set[strings.ToLower(view.Value(i, col).String())] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// FilterRows materialises ApplyFilters over rows. Matching rows are shared
// with rows, not copied.
func FilterRows(rows Dataset, filters Filters) Dataset {
	if filters.IsEmpty() {
		return rows
	}
	sub, ok := ApplyFilters(NewDatasetView(rows), filters).(*SubView)
	if !ok {
		return rows
	}
	out := make(Dataset, 0, len(sub.indices))
	for _, i := range sub.indices {
		out = append(out, rows[i])
	}
	return out
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
