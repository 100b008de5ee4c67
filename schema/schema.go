package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// SCHEMA — Field descriptors that shape a generated dataset
// ============================================================================
// The describe/review steps of the wizard edit an ordered FieldList. The
// generation service receives it verbatim; each field becomes one column.
//
// Invariant: a FieldList is never empty. DeleteAt clamps at one field
// instead of failing.
// ============================================================================

var (
	// ErrIndexOutOfRange is returned when an edit names a field that does not exist.
	ErrIndexOutOfRange = errors.New("field index out of range")
	// ErrUnknownAttribute is returned by Update for keys other than name/description/useAI.
	ErrUnknownAttribute = errors.New("unknown field attribute")
)

// Attribute names accepted by Update.
const (
	AttrName        = "name"
	AttrDescription = "description"
	AttrUseAI       = "useAI"
)

// Field describes one column of the dataset to generate.
// UseAI is forwarded to the generation service and has no client-side effect.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UseAI       bool   `json:"useAI"`
}

// BlankField is the field inserted by InsertAfter.
func BlankField() Field {
	return Field{UseAI: true}
}

// FieldList is an ordered, never-empty list of fields.
// The zero value is not ready for use; call NewFieldList.
type FieldList struct {
	fields []Field
}

// NewFieldList returns a list holding fields, or a single blank field when
// fields is empty. The input slice is copied.
func NewFieldList(fields ...Field) *FieldList {
	if len(fields) == 0 {
		return &FieldList{fields: []Field{BlankField()}}
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return &FieldList{fields: out}
}

// Len returns the number of fields.
func (l *FieldList) Len() int { return len(l.fields) }

// Fields returns a copy of the fields in order.
func (l *FieldList) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// At returns the field at index.
func (l *FieldList) At(index int) (Field, error) {
	if index < 0 || index >= len(l.fields) {
		return Field{}, fmt.Errorf("at %d: %w (len %d)", index, ErrIndexOutOfRange, len(l.fields))
	}
	return l.fields[index], nil
}

// Clone returns an independent copy of the list.
func (l *FieldList) Clone() *FieldList {
	return NewFieldList(l.fields...)
}

// InsertAfter inserts a blank field immediately after index. index -1
// prepends; valid indices are [-1, Len()-1].
func (l *FieldList) InsertAfter(index int) error {
	if index < -1 || index >= len(l.fields) {
		return fmt.Errorf("insert after %d: %w (len %d)", index, ErrIndexOutOfRange, len(l.fields))
	}
	pos := index + 1
	l.fields = append(l.fields, Field{})
	copy(l.fields[pos+1:], l.fields[pos:])
	l.fields[pos] = BlankField()
	return nil
}

// DeleteAt removes the field at index and reports whether anything was
// removed. Deleting the last remaining field, or an index outside the list,
// is a no-op.
func (l *FieldList) DeleteAt(index int) bool {
	if len(l.fields) <= 1 || index < 0 || index >= len(l.fields) {
		return false
	}
	l.fields = append(l.fields[:index], l.fields[index+1:]...)
	return true
}

// Update replaces one attribute of the field at index. value is parsed as a
// bool for AttrUseAI.
func (l *FieldList) Update(index int, key, value string) error {
	if index < 0 || index >= len(l.fields) {
		return fmt.Errorf("update %d: %w (len %d)", index, ErrIndexOutOfRange, len(l.fields))
	}
	f := &l.fields[index]
	switch key {
	case AttrName:
		f.Name = value
	case AttrDescription:
		f.Description = value
	case AttrUseAI:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("update %d %s: %w", index, key, err)
		}
		f.UseAI = b
	default:
		return fmt.Errorf("update %d: %w: %q", index, ErrUnknownAttribute, key)
	}
	return nil
}

// Names returns the field names in order.
func (l *FieldList) Names() []string {
	names := make([]string, len(l.fields))
	for i, f := range l.fields {
		names[i] = f.Name
	}
	return names
}
