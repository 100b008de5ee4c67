package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns the working dataset. It reads through this interface.
//
// Implementations:
//   DatasetView — wraps a Dataset
//   SubView     — subset of a parent view (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a dataset.
// The aggregator calls Value in tight loops.
type RecordView interface {
	Len() int
	Value(index int, key string) Value
	Keys() []string // column keys, in order
}

// ============================================================================
// DATASET VIEW
// ============================================================================

// DatasetView wraps a Dataset as a RecordView.
type DatasetView struct {
	rows Dataset
	keys []string
}

// NewDatasetView creates a RecordView over rows. Column keys come from the
// first row.
func NewDatasetView(rows Dataset) RecordView {
	return &DatasetView{rows: rows, keys: rows.Columns()}
}

func (v *DatasetView) Len() int { return len(v.rows) }

func (v *DatasetView) Value(i int, key string) Value {
	if i < 0 || i >= len(v.rows) {
		return Null()
	}
	return v.rows[i].Get(key)
}

func (v *DatasetView) Keys() []string { return v.keys }

// ============================================================================
// SUB VIEW — subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView.
// Holds indices into the parent; no data is copied.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Value(i int, key string) Value {
	if i < 0 || i >= len(v.indices) {
		return Null()
	}
	return v.parent.Value(v.indices[i], key)
}

func (v *SubView) Keys() []string { return v.parent.Keys() }
