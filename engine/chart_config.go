package engine

import "fmt"

// ============================================================================
// CHART CONFIG DEFAULTING
// ============================================================================
// Whenever the dataset's column set changes the axes are re-derived:
//   x → first column
//   y → first column numeric for some row, else second column, else first
// Keys that are still columns of the new dataset are kept.
// ============================================================================

// DefaultChartConfig derives axes for rows. An empty dataset yields a config
// with empty keys.
func DefaultChartConfig(rows Dataset, t ChartType) ChartConfig {
	if t == "" {
		t = ChartBar
	}
	cfg := ChartConfig{Type: t}
	cols := rows.Columns()
	if len(cols) == 0 {
		return cfg
	}
	cfg.XKey = cols[0]
	cfg.YKey = defaultYKey(NewDatasetView(rows), cols)
	return cfg
}

func defaultYKey(view RecordView, cols []string) string {
	if key, ok := FirstNumericColumn(view); ok {
		return key
	}
	if len(cols) > 1 {
		return cols[1]
	}
	return cols[0]
}

// Reconcile returns c adjusted to rows: keys that are no longer columns are
// replaced by their defaults. Valid keys are preserved.
func (c ChartConfig) Reconcile(rows Dataset) ChartConfig {
	if c.Type == "" {
		c.Type = ChartBar
	}
	if len(rows) == 0 {
		return c
	}
	def := DefaultChartConfig(rows, c.Type)
	if !rows.HasColumn(c.XKey) {
		c.XKey = def.XKey
	}
	if !rows.HasColumn(c.YKey) {
		c.YKey = def.YKey
	}
	return c
}

// Validate checks the chart type and, for a non-empty dataset, that both
// keys are columns.
func (c ChartConfig) Validate(rows Dataset) error {
	if _, err := ParseChartType(string(c.Type)); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if !rows.HasColumn(c.XKey) {
		return fmt.Errorf("x axis: %w: %q", ErrUnknownColumn, c.XKey)
	}
	if !rows.HasColumn(c.YKey) {
		return fmt.Errorf("y axis: %w: %q", ErrUnknownColumn, c.YKey)
	}
	return nil
}
