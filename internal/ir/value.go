package ir

import (
	"strconv"
	"strings"
)

// Value is a sealed interface over the literal values a Constant can carry.
// Only Null, String, Int, Bool, and Array implement it.
// NO floats - floats break deterministic canonical encoding.
type Value interface {
	valueNode() // Sealed - only these types implement it

	// String renders the value deterministically for diagnostics.
	String() string
}

// Null is the absent-value literal.
// An explicit type keeps every Value non-nil inside a constructed tree.
type Null struct{}

func (Null) valueNode() {}

func (Null) String() string { return "null" }

// String is a text literal.
type String string

func (String) valueNode() {}

func (s String) String() string { return strconv.Quote(string(s)) }

// Int is an integer literal. Always int64, never float64.
type Int int64

func (Int) valueNode() {}

func (n Int) String() string { return strconv.FormatInt(int64(n), 10) }

// Bool is a boolean literal.
type Bool bool

func (Bool) valueNode() {}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Array is an ordered sequence of values.
type Array []Value

func (Array) valueNode() {}

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ValueEqual reports structural equality between two values.
// Arrays compare element for element, in order.
func ValueEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !ValueEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
