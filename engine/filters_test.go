package engine

import (
	"reflect"
	"testing"
)

func TestApplyFilters(t *testing.T) {
	rows := Dataset{
		row("city", "Pune", "tier", 1),
		row("city", "Delhi", "tier", 1),
		row("city", "pune", "tier", 2),
		row("city", "Agra", "tier", nil),
	}

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"empty", Filters{}, []string{"Pune", "Delhi", "pune", "Agra"}},
		{"case-insensitive", Filters{"city": {"PUNE"}}, []string{"Pune", "pune"}},
		{"or within column", Filters{"city": {"delhi", "agra"}}, []string{"Delhi", "Agra"}},
		{"and across columns", Filters{"city": {"pune"}, "tier": {"2"}}, []string{"pune"}},
		{"null matches empty", Filters{"tier": {""}}, []string{"Agra"}},
		{"unknown column", Filters{"state": {"MH"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRows(rows, tt.filters)
			cities := make([]string, 0, len(got))
			for _, r := range got {
				cities = append(cities, r.Get("city").String())
			}
			if !reflect.DeepEqual(cities, tt.want) {
				t.Errorf("FilterRows = %v, want %v", cities, tt.want)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	f := Filters{}
	if err := f.ParseFilter("city = Pune"); err != nil {
		t.Fatal(err)
	}
	if err := f.ParseFilter("city=Delhi"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f["city"], []string{"Pune", "Delhi"}) {
		t.Errorf("filters = %v", f)
	}
	for _, bad := range []string{"city", "=Pune"} {
		if err := f.ParseFilter(bad); err == nil {
			t.Errorf("ParseFilter(%q) expected error", bad)
		}
	}
}

func TestApplyFiltersFeedsAggregation(t *testing.T) {
	rows := Dataset{
		row("country", "IN", "pop", 10),
		row("country", "US", "pop", 5),
		row("country", "IN", "pop", 3),
	}
	view := ApplyFilters(NewDatasetView(rows), Filters{"country": {"in"}})
	got := ShapePoints(AggregateByX(view, "country", "pop", 0))
	if want := []Point{{X: "IN", Y: 13}}; !reflect.DeepEqual(got, want) {
		t.Errorf("points = %v, want %v", got, want)
	}
}
