// Package script implements the small embedded scripting language used by
// script and condition behaviors: a lexer, a Pratt-style parser/compiler that
// emits bytecode into a Chunk, and a stack-based VM that executes a Chunk
// against an injected Environment.
package script

import (
	"fmt"
	"strconv"
)

// Kind tags the dynamic type carried by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt64
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged union over {Nil, Bool, Int64, Float64, StringRef}.
// A StringRef is an index into the enclosing Chunk's string pool; Value
// itself never owns string bytes so it stays a small, copyable struct. A
// Value built by Text instead carries its string inline (strRef -1), for
// callers such as the blackboard's Environment bridge that hand a String
// Value to code with no Chunk in scope.
type Value struct {
	kind   Kind
	num    int64   // holds Bool (0/1) and Int64 directly
	float  float64 // holds Float64
	strRef int     // holds the string pool index for KindString, or -1 if inline
	text   string  // inline string payload when strRef == -1
}

// Nil returns the nil Value.
func Nil() Value { return Value{kind: KindNil} }

// Bool builds a boolean Value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Int builds an Int64 Value.
func Int(i int64) Value { return Value{kind: KindInt64, num: i} }

// Float builds a Float64 Value.
func Float(f float64) Value { return Value{kind: KindFloat64, float: f} }

// StringRef builds a Value referring to string pool slot pos.
func StringRef(pos int) Value { return Value{kind: KindString, strRef: pos} }

// Text builds a Value carrying s directly, with no backing Chunk. Used
// outside the VM's own execution, e.g. by an Environment bridging a
// String-kind global to a host-native string.
func Text(s string) Value { return Value{kind: KindString, strRef: -1, text: s} }

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsString reports whether v is a string, pool-backed or inline (see Text).
func (v Value) IsString() bool { return v.kind == KindString }

// AsBool returns the bool payload of v.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("script: value is %s, not bool", v.kind)
	}
	return v.num != 0, nil
}

// AsInt returns the int64 payload of v.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt64 {
		return 0, ErrNoInteger
	}
	return v.num, nil
}

// AsFloat returns the float64 payload of v.
func (v Value) AsFloat() (float64, error) {
	if v.kind != KindFloat64 {
		return 0, ErrNoNumber
	}
	return v.float, nil
}

// StringPos returns the string pool index of v. It fails if v is not a
// pool-backed string (see Text).
func (v Value) StringPos() (int, error) {
	if v.kind != KindString {
		return 0, fmt.Errorf("script: value is %s, not string", v.kind)
	}
	if v.strRef < 0 {
		return 0, fmt.Errorf("script: value is an inline string, not pool-backed")
	}
	return v.strRef, nil
}

// AsText returns v's string content, resolving a pool-backed StringRef
// against chunk or returning the inline payload built by Text. chunk may be
// nil only if v is known to be inline.
func (v Value) AsText(chunk *Chunk) (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("script: value is %s, not string", v.kind)
	}
	if v.strRef < 0 {
		return v.text, nil
	}
	return chunk.GetString(v.strRef), nil
}

// Truthy implements the language's truthiness rule: Nil and Bool(false) are
// falsy, everything else (numbers, strings, Bool(true)) is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.num != 0
	default:
		return true
	}
}

// Format renders v as text, resolving string references against chunk's
// string pool. Used by the print opcode and by string concatenation.
func (v Value) Format(chunk *Chunk) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case KindInt64:
		return strconv.FormatInt(v.num, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case KindString:
		if v.strRef < 0 {
			return v.text
		}
		return chunk.GetString(v.strRef)
	default:
		return "?"
	}
}
