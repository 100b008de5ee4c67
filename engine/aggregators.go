package engine

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, Sorting and Capping via RecordView
// ============================================================================
// Pipeline: detect numeric y → group by x → aggregate → stable sort → cap.
// Grouping produces SubViews (index lists into the parent view).
// ============================================================================

// AggregateByX groups rows by the string form of xKey and summarizes yKey.
//
// When yKey holds a numeric value in at least one row, each group's value is
// the sum of its numeric y values (non-numeric cells are skipped). Otherwise
// each group's value is its row count. Groups are sorted by value descending,
// ties keep first-occurrence order. With topN > 0 and more than topN groups,
// the tail is folded into a trailing "Others" group.
func AggregateByX(view RecordView, xKey, yKey string, topN int) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Numeric detection
	numeric := IsNumericColumn(view, yKey)

	// 2. Group
	groups := groupBySingle(view, xKey)

	// 3. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], yKey, numeric)
	}

	// 4. Sort
	SortGroupsDesc(groups)

	// 5. Cap
	return CapGroups(groups, topN)
}

// ============================================================================
// NUMERIC DETECTION
// ============================================================================

// IsNumericColumn reports whether at least one row holds a numeric value
// under key.
func IsNumericColumn(view RecordView, key string) bool {
	for i := 0; i < view.Len(); i++ {
		if view.Value(i, key).IsNumeric() {
			return true
		}
	}
	return false
}

// FirstNumericColumn returns the first column (in key order) that is
// numeric for some row, and whether one was found.
func FirstNumericColumn(view RecordView) (string, bool) {
	for _, key := range view.Keys() {
		if IsNumericColumn(view, key) {
			return key, true
		}
	}
	return "", false
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, key string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		k := view.Value(i, key).String()
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], i)
	}

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		groups = append(groups, Group{
			Key:  k,
			View: newSubView(view, grouped[k]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, yKey string, numeric bool) {
	group.Count = group.View.Len()
	if numeric {
		group.Value = SumValues(group.View, yKey)
		return
	}
	group.Value = float64(group.Count)
}

// SumValues sums the numeric readings of key across a view. Cells that are
// not numeric contribute nothing.
func SumValues(view RecordView, key string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if f, ok := view.Value(i, key).Float(); ok {
			total += f
		}
	}
	return total
}

// ============================================================================
// SORTING / CAPPING
// ============================================================================

// SortGroupsDesc sorts groups by value, largest first. Equal values keep
// their relative order.
func SortGroupsDesc(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
}

// CapGroups keeps the first topN groups and folds the rest into a single
// Others group appended last. topN <= 0 disables capping.
func CapGroups(groups []Group, topN int) []Group {
	if topN <= 0 || len(groups) <= topN {
		return groups
	}

	others := Group{Key: OthersLabel}
	for _, g := range groups[topN:] {
		others.Value += g.Value
		others.Count += g.Count
	}

	capped := make([]Group, 0, topN+1)
	capped = append(capped, groups[:topN]...)
	return append(capped, others)
}

// ============================================================================
// LABELS
// ============================================================================

// LabelForColumn turns a column key such as "unit_price" into "Unit price".
func LabelForColumn(key string) string {
	s := strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// LabelForValue names the y axis: the column label when numeric, "Count"
// otherwise.
func LabelForValue(yKey string, numeric bool) string {
	if !numeric {
		return "Count"
	}
	return LabelForColumn(yKey)
}
