package engine

import (
	"bytes"
	"encoding/json"
)

// ============================================================================
// ROW / DATASET — Ordered generated data
// ============================================================================
// A Row keeps its keys in the order the generation service produced them.
// Rows are small (a handful of columns), so lookups scan the cell slice.
// ============================================================================

// Cell is one key/value pair of a Row.
type Cell struct {
	Key   string
	Value Value
}

// Row is an ordered mapping from column name to Value. Keys are unique.
type Row []Cell

// Get returns the value under key, or Null when the key is absent.
func (r Row) Get(key string) Value {
	for _, c := range r {
		if c.Key == key {
			return c.Value
		}
	}
	return Null()
}

// Has reports whether key is present in the row.
func (r Row) Has(key string) bool {
	for _, c := range r {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the row's keys in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, c := range r {
		keys[i] = c.Key
	}
	return keys
}

// With returns a copy of r with key set to v. An existing key keeps its
// position; a new key is appended.
func (r Row) With(key string, v Value) Row {
	out := make(Row, len(r), len(r)+1)
	copy(out, r)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = v
			return out
		}
	}
	return append(out, Cell{Key: key, Value: v})
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// MarshalJSON encodes the row as a JSON object, preserving key order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := c.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is an ordered sequence of rows. Row identity is the index.
type Dataset []Row

// Columns returns the keys of the first row, or nil for an empty dataset.
func (d Dataset) Columns() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0].Keys()
}

// HasColumn reports whether key is one of the dataset's columns.
func (d Dataset) HasColumn(key string) bool {
	if len(d) == 0 {
		return false
	}
	return d[0].Has(key)
}

// Clone deep-copies the dataset so edits to the copy never reach d.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	for i, r := range d {
		out[i] = r.Clone()
	}
	return out
}

// WithCell returns a copy of d where row i has key set to v. Rows other
// than i are shared with d; they are never mutated in place.
func (d Dataset) WithCell(i int, key string, v Value) Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	out[i] = d[i].With(key, v)
	return out
}

// SameColumns reports whether a and b have identical column lists.
func SameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
