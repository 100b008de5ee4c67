package engine

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genRows encodes (x, y) pairs in one int so shrinking keeps them aligned.
// x ranges over 30 categories and y over [-100, 100].
func genRows() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 30*201-1)).Map(func(vs []int) Dataset {
		rows := make(Dataset, len(vs))
		for i, v := range vs {
			rows[i] = row("x", "c"+strconv.Itoa(v/201), "y", v%201-100)
		}
		return rows
	})
}

func TestAggregationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("group values sum to the y total, Others included", prop.ForAll(
		func(rows Dataset, topN int) bool {
			var want float64
			for _, r := range rows {
				f, _ := r.Get("y").Float()
				want += f
			}
			var got float64
			for _, g := range AggregateByX(NewDatasetView(rows), "x", "y", topN) {
				got += g.Value
			}
			return got == want
		},
		genRows(), gen.IntRange(0, 10),
	))

	properties.Property("groups are sorted descending and capped", prop.ForAll(
		func(rows Dataset, topN int) bool {
			groups := AggregateByX(NewDatasetView(rows), "x", "y", topN)
			if topN > 0 && len(groups) > topN+1 {
				return false
			}
			limit := len(groups)
			if topN > 0 && len(groups) == topN+1 {
				limit = topN // Others sits outside the ordering
			}
			for i := 1; i < limit; i++ {
				if groups[i].Value > groups[i-1].Value {
					return false
				}
			}
			return true
		},
		genRows(), gen.IntRange(1, 10),
	))

	properties.Property("aggregation is deterministic", prop.ForAll(
		func(rows Dataset) bool {
			a := ShapePoints(AggregateByX(NewDatasetView(rows), "x", "y", DefaultBarTopN))
			b := ShapePoints(AggregateByX(NewDatasetView(rows.Clone()), "x", "y", DefaultBarTopN))
			return reflect.DeepEqual(a, b)
		},
		genRows(),
	))

	properties.Property("reconciled chart keys are dataset columns", prop.ForAll(
		func(rows Dataset) bool {
			cfg := ChartConfig{XKey: "gone", YKey: "y", Type: ChartPie}.Reconcile(rows)
			if len(rows) == 0 {
				return cfg.XKey == "gone"
			}
			return cfg.XKey == "x" && cfg.YKey == "y" && cfg.Validate(rows) == nil
		},
		genRows(),
	))

	properties.TestingRun(t)
}
