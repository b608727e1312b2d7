package blackboard

import (
	"fmt"
	"strconv"
)

// Get resolves key and returns it as T: a direct type match returns the
// stored value; if the stored value is a string and T is one of the
// parseable primitive kinds, a string→T parse is attempted without
// rewriting the stored entry.
func Get[T any](b *Blackboard, key string) (T, error) {
	var zero T
	_, _, entry, found, remapped := b.resolve(key)
	if !found {
		return zero, &NotFoundError{Path: notFoundPath(key, remapped)}
	}
	if v, ok := entry.Value().(T); ok {
		return v, nil
	}
	if s, ok := entry.Value().(string); ok {
		if parsed, ok := parseAs[T](s); ok {
			return parsed, nil
		}
		return zero, &ParsePortValueError{Key: key, Expected: fmt.Sprintf("%T", zero)}
	}
	return zero, &WrongTypeError{Key: key, Stored: entry.TypeName(), Wanted: fmt.Sprintf("%T", zero)}
}

// Set writes value under key: overwrite in place if the key already
// resolves on the write path (local under the original name, or through a
// remap/autoremap into a parent that holds it), type-checked against the
// existing entry; otherwise create a new entry, locally or through a
// manual remap into the parent scope so a subtree's output lands where
// the enclosing tree reads it. It returns the prior value if one existed.
func Set[T any](b *Blackboard, key string, value T) (prior T, err error) {
	owner, localKey, entry, found, _ := b.resolveForWrite(key)
	if found {
		if _, ok := entry.Value().(T); !ok {
			var zero T
			return zero, &WrongTypeError{Key: key, Stored: entry.TypeName(), Wanted: fmt.Sprintf("%T", zero)}
		}
		priorEntry, _ := owner.storeLocal(localKey, newEntry(value))
		prior, _ = priorEntry.Value().(T)
		return prior, nil
	}
	owner, localKey = b.createTarget(key)
	priorEntry, had := owner.storeLocal(localKey, newEntry(value))
	if had {
		prior, _ = priorEntry.Value().(T)
	}
	return prior, nil
}

// Delete removes key, following the same resolution as Set, and returns
// the prior value. Absence anywhere in the resolved chain is NotFound.
func Delete[T any](b *Blackboard, key string) (prior T, err error) {
	owner, localKey, entry, found, remapped := b.resolveForWrite(key)
	var zero T
	if !found {
		return zero, &NotFoundError{Path: notFoundPath(key, remapped)}
	}
	v, ok := entry.Value().(T)
	if !ok {
		return zero, &WrongTypeError{Key: key, Stored: entry.TypeName(), Wanted: fmt.Sprintf("%T", zero)}
	}
	owner.deleteLocal(localKey)
	return v, nil
}

// parseAs attempts a string→T parse for the primitive kinds the port model
// supports. T is resolved via a type switch on a pointer to the zero value,
// the standard pattern for a bounded set of generic conversions in Go.
func parseAs[T any](s string) (T, bool) {
	var zero T
	switch p := any(&zero).(type) {
	case *string:
		*p = s
		return zero, true
	case *bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return zero, false
		}
		*p = v
		return zero, true
	case *int8:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return zero, false
		}
		*p = int8(v)
		return zero, true
	case *int16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return zero, false
		}
		*p = int16(v)
		return zero, true
	case *int32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return zero, false
		}
		*p = int32(v)
		return zero, true
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, false
		}
		*p = v
		return zero, true
	case *uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return zero, false
		}
		*p = uint8(v)
		return zero, true
	case *uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return zero, false
		}
		*p = uint16(v)
		return zero, true
	case *uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return zero, false
		}
		*p = uint32(v)
		return zero, true
	case *float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, false
		}
		*p = float32(v)
		return zero, true
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, false
		}
		*p = v
		return zero, true
	default:
		return zero, false
	}
}
