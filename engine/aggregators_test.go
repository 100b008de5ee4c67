package engine

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

// ============================================================================
// AGGREGATION TESTS
// ============================================================================

// row builds a Row from alternating key/value arguments.
func row(kv ...any) Row {
	r := make(Row, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		var v Value
		switch x := kv[i+1].(type) {
		case nil:
			v = Null()
		case string:
			v = String(x)
		case int:
			v = Number(float64(x))
		case float64:
			v = Number(x)
		case bool:
			v = Bool(x)
		case Value:
			v = x
		default:
			panic(fmt.Sprintf("unsupported value %T", x))
		}
		r = append(r, Cell{Key: key, Value: v})
	}
	return r
}

func groupsAsPoints(groups []Group) []Point {
	return ShapePoints(groups)
}

func TestAggregateByXSumsNumericY(t *testing.T) {
	rows := Dataset{
		row("country", "IN", "pop", 10),
		row("country", "US", "pop", 5),
		row("country", "IN", "pop", 3),
	}

	got := groupsAsPoints(AggregateByX(NewDatasetView(rows), "country", "pop", 20))
	want := []Point{{X: "IN", Y: 13}, {X: "US", Y: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByX = %v, want %v", got, want)
	}
}

func TestAggregateByXCountsNonNumericY(t *testing.T) {
	rows := Dataset{
		row("city", "Pune", "name", "a"),
		row("city", "Delhi", "name", "b"),
		row("city", "Delhi", "name", "c"),
	}

	got := groupsAsPoints(AggregateByX(NewDatasetView(rows), "city", "name", 20))
	want := []Point{{X: "Delhi", Y: 2}, {X: "Pune", Y: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByX = %v, want %v", got, want)
	}
}

func TestAggregateByXNumericStrings(t *testing.T) {
	rows := Dataset{
		row("k", "a", "v", " 2.5 "),
		row("k", "a", "v", "n/a"),
		row("k", "b", "v", "4"),
		row("k", "c", "v", ""),
	}

	got := groupsAsPoints(AggregateByX(NewDatasetView(rows), "k", "v", 0))
	want := []Point{{X: "b", Y: 4}, {X: "a", Y: 2.5}, {X: "c", Y: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByX = %v, want %v", got, want)
	}
}

func TestAggregateByXSkipsNonFinite(t *testing.T) {
	rows := Dataset{
		row("k", "a", "v", math.Inf(1)),
		row("k", "a", "v", 1),
		row("k", "b", "v", "NaN"),
		row("k", "b", "v", 2),
	}

	got := groupsAsPoints(AggregateByX(NewDatasetView(rows), "k", "v", 0))
	want := []Point{{X: "b", Y: 2}, {X: "a", Y: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByX = %v, want %v", got, want)
	}
}

func TestAggregateByXNullAndAbsentXGroupTogether(t *testing.T) {
	rows := Dataset{
		row("k", nil, "v", 1),
		row("v", 2),
		row("k", "x", "v", 1),
	}

	got := groupsAsPoints(AggregateByX(NewDatasetView(rows), "k", "v", 0))
	want := []Point{{X: "", Y: 3}, {X: "x", Y: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByX = %v, want %v", got, want)
	}
}

func TestAggregateByXTiesKeepFirstOccurrence(t *testing.T) {
	rows := Dataset{
		row("k", "c", "v", 1),
		row("k", "a", "v", 1),
		row("k", "b", "v", 2),
		row("k", "d", "v", 1),
	}

	got := groupsAsPoints(AggregateByX(NewDatasetView(rows), "k", "v", 0))
	want := []Point{{X: "b", Y: 2}, {X: "c", Y: 1}, {X: "a", Y: 1}, {X: "d", Y: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByX = %v, want %v", got, want)
	}
}

func TestAggregateByXFoldsOthers(t *testing.T) {
	rows := make(Dataset, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, row("k", fmt.Sprintf("cat-%02d", i), "v", 1))
	}

	groups := AggregateByX(NewDatasetView(rows), "k", "v", 20)
	if len(groups) != 21 {
		t.Fatalf("len(groups) = %d, want 21", len(groups))
	}
	last := groups[20]
	if last.Key != OthersLabel || last.Value != 5 {
		t.Errorf("last group = %s/%v, want Others/5", last.Key, last.Value)
	}
	if groups[0].Key != "cat-00" || groups[19].Key != "cat-19" {
		t.Errorf("kept groups out of order: first=%s last=%s", groups[0].Key, groups[19].Key)
	}
}

func TestAggregateByXOthersAppendedLastEvenWhenLargest(t *testing.T) {
	rows := Dataset{
		row("k", "a", "v", 3),
		row("k", "b", "v", 2),
		row("k", "c", "v", 2),
		row("k", "d", "v", 2),
	}

	groups := AggregateByX(NewDatasetView(rows), "k", "v", 1)
	got := groupsAsPoints(groups)
	want := []Point{{X: "a", Y: 3}, {X: OthersLabel, Y: 6}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByX = %v, want %v", got, want)
	}
}

func TestAggregateByXDeterministic(t *testing.T) {
	rows := Dataset{}
	for i := 0; i < 40; i++ {
		rows = append(rows, row("k", fmt.Sprintf("c%d", i%13), "v", i%4))
	}

	first := groupsAsPoints(AggregateByX(NewDatasetView(rows), "k", "v", 8))
	for i := 0; i < 20; i++ {
		again := groupsAsPoints(AggregateByX(NewDatasetView(rows), "k", "v", 8))
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestAggregateByXEmpty(t *testing.T) {
	if got := AggregateByX(NewDatasetView(nil), "a", "b", 20); got != nil {
		t.Errorf("AggregateByX(empty) = %v, want nil", got)
	}
}

// ============================================================================
// BUILD CHART
// ============================================================================

func TestBuildChartPieCapsAtEight(t *testing.T) {
	rows := Dataset{}
	for i := 0; i < 12; i++ {
		rows = append(rows, row("k", fmt.Sprintf("c%d", i), "v", 12-i))
	}

	res, err := BuildChart(rows, ChartConfig{XKey: "k", YKey: "v", Type: ChartPie})
	if err != nil {
		t.Fatalf("BuildChart: %v", err)
	}
	if len(res.Slices) != 9 || len(res.Points) != 0 {
		t.Fatalf("slices=%d points=%d, want 9/0", len(res.Slices), len(res.Points))
	}
	// c8..c11 fold: 4+3+2+1
	if s := res.Slices[8]; s.Name != OthersLabel || s.Value != 10 {
		t.Errorf("Others slice = %+v, want {Others 10}", s)
	}
	if !res.Capped {
		t.Error("Capped should be true")
	}
	if res.Colors[8] != OthersColor {
		t.Errorf("Others color = %s, want %s", res.Colors[8], OthersColor)
	}
}

func TestBuildChartLineUsesBarCap(t *testing.T) {
	rows := Dataset{}
	for i := 0; i < 22; i++ {
		rows = append(rows, row("k", fmt.Sprintf("c%d", i), "v", "x"))
	}

	res, err := BuildChart(rows, ChartConfig{XKey: "k", YKey: "v", Type: ChartLine})
	if err != nil {
		t.Fatalf("BuildChart: %v", err)
	}
	if len(res.Points) != 21 {
		t.Fatalf("points = %d, want 21", len(res.Points))
	}
	if res.Numeric || res.YLabel != "Count" {
		t.Errorf("Numeric=%v YLabel=%q, want false/Count", res.Numeric, res.YLabel)
	}
}

func TestBuildChartWithTopNOverride(t *testing.T) {
	rows := Dataset{
		row("k", "a", "v", 1),
		row("k", "b", "v", 1),
		row("k", "c", "v", 1),
	}

	res, err := BuildChart(rows, ChartConfig{XKey: "k", YKey: "v", Type: ChartBar}, WithTopN(ChartBar, 0))
	if err != nil {
		t.Fatalf("BuildChart: %v", err)
	}
	if len(res.Points) != 3 || res.Capped {
		t.Errorf("points=%d capped=%v, want 3/false", len(res.Points), res.Capped)
	}
}

func TestBuildChartRejectsUnknownColumn(t *testing.T) {
	rows := Dataset{row("a", 1)}
	_, err := BuildChart(rows, ChartConfig{XKey: "a", YKey: "missing", Type: ChartBar})
	if err == nil {
		t.Fatal("expected error for unknown y column")
	}
}

func TestBuildChartRejectsUnknownType(t *testing.T) {
	_, err := BuildChart(nil, ChartConfig{Type: "scatter"})
	if err == nil {
		t.Fatal("expected error for unknown chart type")
	}
}

func TestBuildChartEmptyDataset(t *testing.T) {
	res, err := BuildChart(nil, ChartConfig{Type: ChartBar})
	if err != nil {
		t.Fatalf("BuildChart: %v", err)
	}
	if res.Len() != 0 {
		t.Errorf("Len = %d, want 0", res.Len())
	}
}
