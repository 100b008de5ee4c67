package engine

import (
	"errors"
	"fmt"
)

// ============================================================================
// ENGINE TYPES — Chart configuration and render-ready output
// ============================================================================
// Dependency: engine has ZERO external dependencies. It never calls the
// remote service; everything here is computed locally from a Dataset.
// ============================================================================

var (
	// ErrUnknownColumn is returned when a chart key is not a dataset column.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnknownChartType is returned for chart types other than bar/line/pie.
	ErrUnknownChartType = errors.New("unknown chart type")
)

// OthersLabel names the synthetic bucket that folds capped categories.
const OthersLabel = "Others"

// ============================================================================
// CHART TYPE / CONFIG
// ============================================================================

// ChartType selects how aggregated groups are shaped.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// ChartTypes lists every supported chart type.
var ChartTypes = []ChartType{ChartBar, ChartLine, ChartPie}

// Default category caps per chart type.
const (
	DefaultPieTopN = 8
	DefaultBarTopN = 20
)

// ParseChartType validates a chart type name.
func ParseChartType(s string) (ChartType, error) {
	switch ChartType(s) {
	case ChartBar, ChartLine, ChartPie:
		return ChartType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChartType, s)
}

// DefaultTopN returns the category cap applied when no option overrides it.
func (t ChartType) DefaultTopN() int {
	if t == ChartPie {
		return DefaultPieTopN
	}
	return DefaultBarTopN
}

// ChartConfig is the user's choice of axes and chart type.
type ChartConfig struct {
	XKey string    `json:"xKey"`
	YKey string    `json:"yKey"`
	Type ChartType `json:"chartType"`
}

// ============================================================================
// GROUP — Intermediate aggregation result
// ============================================================================

// Group is one x-category with its accumulated value.
type Group struct {
	Key   string     `json:"key"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // rows in this group (zero-copy); nil for Others
}

// ============================================================================
// CHART OUTPUT
// ============================================================================

// Point is one bar/line datum.
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Slice is one pie datum.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChartResult is render-ready chart data. Exactly one of Points or Slices
// is populated, depending on Config.Type.
type ChartResult struct {
	Config   ChartConfig `json:"config"`
	Numeric  bool        `json:"numeric"` // false → values are row counts
	Points   []Point     `json:"points,omitempty"`
	Slices   []Slice     `json:"slices,omitempty"`
	Colors   []string    `json:"colors,omitempty"`
	XLabel   string      `json:"xLabel"`
	YLabel   string      `json:"yLabel"`
	Capped   bool        `json:"capped"`
	RowCount int         `json:"rowCount"`
}

// Len returns the number of rendered entries.
func (r *ChartResult) Len() int {
	if r.Config.Type == ChartPie {
		return len(r.Slices)
	}
	return len(r.Points)
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a string grid preview of a dataset.
type TableData struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary string     `json:"summary"`
}

// Column describes one preview column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}
