package engine

// ============================================================================
// EXECUTOR — Dataset + ChartConfig → ChartResult
// ============================================================================
// Entry point: BuildChart(rows, cfg, opts...)
//
// Pipeline:
//   1. Validate chart type and axes
//   2. Wrap rows in a DatasetView (zero-copy)
//   3. Aggregate by x with the chart type's category cap
//   4. Shape to points (bar/line) or slices (pie)
//
// This function never calls the remote service. All computation is local.
// ============================================================================

// BuildChart aggregates rows for the chart described by cfg.
// An empty dataset yields an empty result, not an error.
func BuildChart(rows Dataset, cfg ChartConfig, opts ...Option) (*ChartResult, error) {
	if err := cfg.Validate(rows); err != nil {
		return nil, err
	}

	result := &ChartResult{
		Config:   cfg,
		XLabel:   LabelForColumn(cfg.XKey),
		RowCount: len(rows),
	}
	if len(rows) == 0 {
		return result, nil
	}

	o := applyOptions(opts)
	topN := o.TopN[cfg.Type]

	view := NewDatasetView(rows)
	result.Numeric = IsNumericColumn(view, cfg.YKey)
	result.YLabel = LabelForValue(cfg.YKey, result.Numeric)

	groups := AggregateByX(view, cfg.XKey, cfg.YKey, topN)
	result.Capped = topN > 0 && len(groups) == topN+1 && groups[topN].View == nil

	switch cfg.Type {
	case ChartPie:
		result.Slices = ShapeSlices(groups)
	default:
		result.Points = ShapePoints(groups)
	}
	result.Colors = assignColors(len(groups), result.Capped)

	return result, nil
}
