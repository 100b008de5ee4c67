package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a Dataset
// ============================================================================
// Column discovery uses view.Keys(); a column is typed "number" when every
// non-null cell in it is numeric.
// ============================================================================

// BuildTable produces a string grid of rows. limit <= 0 means all rows.
func BuildTable(rows Dataset, limit int) *TableData {
	view := NewDatasetView(rows)
	if view.Len() == 0 {
		return &TableData{
			Columns: []Column{},
			Rows:    [][]string{},
			Summary: "No rows",
		}
	}

	keys := view.Keys()
	columns := make([]Column, 0, len(keys))
	for _, key := range keys {
		col := Column{Key: key, Label: key, Type: "text", Align: "left"}
		if allNumeric(view, key) {
			col.Type = "number"
			col.Align = "right"
		}
		columns = append(columns, col)
	}

	n := view.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(keys))
		for _, key := range keys {
			row = append(row, view.Value(i, key).String())
		}
		out = append(out, row)
	}

	summary := fmt.Sprintf("%d rows × %d columns", view.Len(), len(keys))
	if n < view.Len() {
		summary = fmt.Sprintf("showing %d of %s", n, summary)
	}

	return &TableData{
		Columns: columns,
		Rows:    out,
		Summary: summary,
	}
}

func allNumeric(view RecordView, key string) bool {
	seen := false
	for i := 0; i < view.Len(); i++ {
		v := view.Value(i, key)
		if v.IsNull() {
			continue
		}
		if !v.IsNumeric() {
			return false
		}
		seen = true
	}
	return seen
}
