package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/schema"
	"github.com/spektr-org/datasynth/wizard"
)

// ============================================================================
// RENDERING — Plain-text views of snapshots, tables and charts
// ============================================================================

const maxCellWidth = 24

func printFields(w io.Writer, fields []schema.Field) {
	for i, f := range fields {
		name := f.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "  %2d. %-20s %s\n", i, name, f.Description)
	}
}

func printTable(w io.Writer, rows engine.Dataset, limit int) {
	t := engine.BuildTable(rows, limit)
	if len(t.Columns) == 0 {
		fmt.Fprintln(w, t.Summary)
		return
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = utf8.RuneCountInString(c.Label)
	}
	for _, r := range t.Rows {
		for i, v := range r {
			if n := utf8.RuneCountInString(clip(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(cells []string, align func(int) string) {
		parts := make([]string, len(cells))
		for i, v := range cells {
			parts[i] = pad(clip(v), widths[i], align(i))
		}
		fmt.Fprintln(w, "  "+strings.Join(parts, "  "))
	}

	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label
	}
	line(labels, func(int) string { return "left" })
	for _, r := range t.Rows {
		line(r, func(i int) string { return t.Columns[i].Align })
	}
	fmt.Fprintln(w, t.Summary)
}

func clip(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxCellWidth {
		return s
	}
	r := []rune(s)
	return string(r[:maxCellWidth-1]) + "…"
}

func pad(s string, width int, align string) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}
	if align == "right" {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func printChart(w io.Writer, res *engine.ChartResult) {
	fmt.Fprintf(w, "%s chart: %s by %s (%d rows)\n", res.Config.Type, res.YLabel, res.XLabel, res.RowCount)

	type entry struct {
		label string
		value float64
	}
	var entries []entry
	for _, p := range res.Points {
		entries = append(entries, entry{p.X, p.Y})
	}
	for _, s := range res.Slices {
		entries = append(entries, entry{s.Name, s.Value})
	}

	var max float64
	for _, e := range entries {
		if e.value > max {
			max = e.value
		}
	}
	for _, e := range entries {
		bar := 0
		if max > 0 && e.value > 0 {
			bar = int(e.value / max * 30)
		}
		label := e.label
		if label == "" {
			label = "(empty)"
		}
		fmt.Fprintf(w, "  %-20s %12s %s\n", clip(label), engine.Number(e.value).String(), strings.Repeat("#", bar))
	}
}

func printHistory(w io.Writer, entries []wizard.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (no history)")
		return
	}
	for i, h := range entries {
		fmt.Fprintf(w, "  %2d. %-11s %-30s %3d rows  %s\n", i, h.Timestamp, clip(h.Description), h.Rows, h.ID)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
