package schema

import "fmt"

// ============================================================================
// INTENTS — Typed edit messages for a FieldList
// ============================================================================
// Editors emit intents; whoever owns the list applies them. This keeps the
// editing surface (CLI, tests, a UI) decoupled from state ownership.
// ============================================================================

// Intent is one edit to a FieldList.
type Intent interface {
	apply(l *FieldList) error
	String() string
}

// InsertAfterIntent inserts a blank field after Index (-1 prepends).
type InsertAfterIntent struct{ Index int }

// DeleteAtIntent removes the field at Index, clamped at one field.
type DeleteAtIntent struct{ Index int }

// UpdateIntent sets attribute Key of the field at Index to Value.
type UpdateIntent struct {
	Index int
	Key   string
	Value string
}

// InsertAfter builds an InsertAfterIntent.
func InsertAfter(index int) Intent { return InsertAfterIntent{Index: index} }

// DeleteAt builds a DeleteAtIntent.
func DeleteAt(index int) Intent { return DeleteAtIntent{Index: index} }

// Update builds an UpdateIntent.
func Update(index int, key, value string) Intent {
	return UpdateIntent{Index: index, Key: key, Value: value}
}

func (i InsertAfterIntent) apply(l *FieldList) error { return l.InsertAfter(i.Index) }
func (i DeleteAtIntent) apply(l *FieldList) error    { l.DeleteAt(i.Index); return nil }
func (i UpdateIntent) apply(l *FieldList) error      { return l.Update(i.Index, i.Key, i.Value) }

func (i InsertAfterIntent) String() string { return fmt.Sprintf("insert-after(%d)", i.Index) }
func (i DeleteAtIntent) String() string    { return fmt.Sprintf("delete-at(%d)", i.Index) }
func (i UpdateIntent) String() string {
	return fmt.Sprintf("update(%d, %s=%q)", i.Index, i.Key, i.Value)
}

// Apply applies intent to the list.
func (l *FieldList) Apply(intent Intent) error {
	if intent == nil {
		return nil
	}
	return intent.apply(l)
}
