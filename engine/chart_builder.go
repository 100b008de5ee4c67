package engine

// ============================================================================
// CHART BUILDER — Shapes aggregated groups per chart type
// ============================================================================
// bar/line → []Point{X, Y}; pie → []Slice{Name, Value}. Order is the
// post-sort, post-cap group order.
// ============================================================================

// Default color palette for chart entries.
var defaultColors = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// OthersColor is used for the folded Others entry.
const OthersColor = "#94A3B8"

// ShapePoints converts groups into bar/line points.
func ShapePoints(groups []Group) []Point {
	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, Point{X: g.Key, Y: g.Value})
	}
	return points
}

// ShapeSlices converts groups into pie slices.
func ShapeSlices(groups []Group) []Slice {
	slices := make([]Slice, 0, len(groups))
	for _, g := range groups {
		slices = append(slices, Slice{Name: g.Key, Value: g.Value})
	}
	return slices
}

// assignColors returns one color per entry. A trailing Others entry gets
// the neutral color.
func assignColors(count int, capped bool) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	if capped && count > 0 {
		colors[count-1] = OthersColor
	}
	return colors
}
