package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// TEXT BUILDER — Column profile and one-line dataset summary
// ============================================================================

// ColumnProfile summarizes one column of a dataset.
type ColumnProfile struct {
	Key      string  `json:"key"`
	Numeric  bool    `json:"numeric"`
	Distinct int     `json:"distinct"`
	Nulls    int     `json:"nulls"`
	Sum      float64 `json:"sum,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
}

// Profile computes a ColumnProfile for every column of rows.
func Profile(rows Dataset) []ColumnProfile {
	view := NewDatasetView(rows)
	keys := view.Keys()
	profiles := make([]ColumnProfile, 0, len(keys))

	for _, key := range keys {
		p := ColumnProfile{Key: key, Min: math.Inf(1), Max: math.Inf(-1)}
		seen := make(map[string]bool)
		for i := 0; i < view.Len(); i++ {
			v := view.Value(i, key)
			if v.IsNull() {
				p.Nulls++
			}
			seen[v.String()] = true
			if f, ok := v.Float(); ok {
				p.Numeric = true
				p.Sum += f
				p.Min = math.Min(p.Min, f)
				p.Max = math.Max(p.Max, f)
			}
		}
		p.Distinct = len(seen)
		if !p.Numeric {
			p.Min, p.Max = 0, 0
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// BuildSummary renders a short human-readable description of rows.
func BuildSummary(rows Dataset) string {
	if len(rows) == 0 {
		return "No data."
	}

	var numeric []string
	for _, p := range Profile(rows) {
		if p.Numeric {
			numeric = append(numeric, p.Key)
		}
	}

	s := fmt.Sprintf("%d rows, %d columns", len(rows), len(rows.Columns()))
	if len(numeric) > 0 {
		s += fmt.Sprintf(" (numeric: %s)", strings.Join(numeric, ", "))
	}
	return s + "."
}
