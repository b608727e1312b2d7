package blackboard

import (
	"math"

	"dimasbt/internal/script"
)

// Define implements script.Environment: it inserts name, or overwrites it if
// already present, storing the canonical Rust-like widths the VM's Value
// kinds map to (int64 for Int64, float64 for Float64, bool for Bool, string
// for String). Nil unsets any existing entry rather than storing a typed
// nil, since the blackboard's entries are always concretely typed.
func (b *Blackboard) Define(name string, v script.Value) error {
	if v.Kind() == script.KindNil {
		b.deleteLocal(name)
		return nil
	}
	native, err := nativeFromScript(name, v, nil)
	if err != nil {
		return err
	}
	owner, localKey, _, found, _ := b.resolveForWrite(name)
	if !found {
		owner, localKey = b.createTarget(name)
	}
	owner.storeLocal(localKey, newEntry(native))
	return nil
}

// Get implements script.Environment: a miss anywhere on the lookup chain is
// reported as GlobalNotDefined rather than the blackboard's own NotFound, to
// match the VM's error vocabulary.
func (b *Blackboard) Get(name string) (script.Value, error) {
	_, _, entry, found, _ := b.resolve(name)
	if !found {
		return script.Value{}, &script.GlobalNotDefinedError{Name: name}
	}
	return scriptFromNative(name, entry.Value())
}

// Set implements script.Environment: the target global must already exist
// on the write-path resolution (local, or through a remap/autoremap into a
// parent that holds it), and a numeric write is range-checked against the
// stored entry's concrete width (i8/i16/i32/u8/u16/u32/f32); integer and
// float are never cross-assignable.
func (b *Blackboard) Set(name string, v script.Value) error {
	owner, localKey, entry, found, _ := b.resolveForWrite(name)
	if !found {
		return &script.GlobalNotDefinedError{Name: name}
	}
	native, err := nativeFromScript(name, v, entry.Value())
	if err != nil {
		return err
	}
	owner.storeLocal(localKey, newEntry(native))
	return nil
}

// nativeFromScript converts a script.Value into the Go value that should be
// stored on the blackboard. If existing is non-nil, the conversion narrows
// to match existing's concrete width and range-checks the result;
// otherwise (a fresh Define) it uses the canonical int64/float64 widths.
func nativeFromScript(name string, v script.Value, existing any) (any, error) {
	switch v.Kind() {
	case script.KindBool:
		if existing != nil {
			if _, ok := existing.(bool); !ok {
				return nil, &script.GlobalWrongTypeError{Name: name}
			}
		}
		b, _ := v.AsBool()
		return b, nil
	case script.KindInt64:
		i, _ := v.AsInt()
		if existing == nil {
			return i, nil
		}
		return narrowInt(name, i, existing)
	case script.KindFloat64:
		f, _ := v.AsFloat()
		if existing == nil {
			return f, nil
		}
		return narrowFloat(name, f, existing)
	case script.KindString:
		if existing != nil {
			if _, ok := existing.(string); !ok {
				return nil, &script.GlobalWrongTypeError{Name: name}
			}
		}
		// detach has already resolved any chunk-pool StringRef to inline
		// text by this point, so chunk is never consulted here.
		text, _ := v.AsText(nil)
		return text, nil
	default:
		return nil, &script.GlobalHasUnknownTypeError{Name: name}
	}
}

func narrowInt(name string, i int64, existing any) (any, error) {
	switch existing.(type) {
	case int8:
		if i < math.MinInt8 || i > math.MaxInt8 {
			return nil, &script.GlobalExceedsLimitsError{Name: name}
		}
		return int8(i), nil
	case int16:
		if i < math.MinInt16 || i > math.MaxInt16 {
			return nil, &script.GlobalExceedsLimitsError{Name: name}
		}
		return int16(i), nil
	case int32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, &script.GlobalExceedsLimitsError{Name: name}
		}
		return int32(i), nil
	case int64:
		return i, nil
	case uint8:
		if i < 0 || i > math.MaxUint8 {
			return nil, &script.GlobalExceedsLimitsError{Name: name}
		}
		return uint8(i), nil
	case uint16:
		if i < 0 || i > math.MaxUint16 {
			return nil, &script.GlobalExceedsLimitsError{Name: name}
		}
		return uint16(i), nil
	case uint32:
		if i < 0 || i > math.MaxUint32 {
			return nil, &script.GlobalExceedsLimitsError{Name: name}
		}
		return uint32(i), nil
	default:
		return nil, &script.GlobalWrongTypeError{Name: name}
	}
}

func narrowFloat(name string, f float64, existing any) (any, error) {
	switch existing.(type) {
	case float32:
		if f > math.MaxFloat32 || f < -math.MaxFloat32 {
			return nil, &script.GlobalExceedsLimitsError{Name: name}
		}
		return float32(f), nil
	case float64:
		return f, nil
	default:
		return nil, &script.GlobalWrongTypeError{Name: name}
	}
}

// scriptFromNative widens a stored Go value back into a script.Value for
// the VM's global reads, widening narrow numeric types to Int64/Float64.
func scriptFromNative(name string, v any) (script.Value, error) {
	switch n := v.(type) {
	case bool:
		return script.Bool(n), nil
	case int8:
		return script.Int(int64(n)), nil
	case int16:
		return script.Int(int64(n)), nil
	case int32:
		return script.Int(int64(n)), nil
	case int64:
		return script.Int(n), nil
	case uint8:
		return script.Int(int64(n)), nil
	case uint16:
		return script.Int(int64(n)), nil
	case uint32:
		return script.Int(int64(n)), nil
	case float32:
		return script.Float(float64(n)), nil
	case float64:
		return script.Float(n), nil
	case string:
		return script.Text(n), nil
	default:
		return script.Value{}, &script.GlobalHasUnknownTypeError{Name: name}
	}
}
