package blackboard

import "fmt"

// Entry is a type-tagged, shared-ownership wrapper around a single stored
// value. Mutation replaces the entry rather than mutating it in place, so an
// Entry handed out by GetEntry is a stable snapshot.
type Entry struct {
	value    any
	typeName string
}

func newEntry(value any) Entry {
	return Entry{value: value, typeName: fmt.Sprintf("%T", value)}
}

// Value returns the entry's boxed value.
func (e Entry) Value() any { return e.value }

// TypeName returns the Go type name of the stored value, used for
// diagnostics and for the type-identity check on overwrite.
func (e Entry) TypeName() string { return e.typeName }
