// Package types models the type domain of the expression IR and derives
// expression types, including the computed type of a bind.
//
// Types are descriptors, not behavior: a sealed sum of primitives, arrays,
// and function signatures. No IR node stores its type; every type is
// derived on demand from the tree and a scope. That keeps nodes immutable
// and puts all arity and function-typedness checking here, never in the
// nodes themselves.
package types

import (
	"fmt"
	"slices"
	"strings"
)

// Type is a sealed interface over the closed set of type descriptors.
type Type interface {
	typeNode() // Marker method - seals interface to this package

	// String renders the type deterministically.
	String() string
}

// Primitive is a scalar type.
type Primitive string

const (
	Boolean Primitive = "boolean"
	Bigint  Primitive = "bigint"
	Varchar Primitive = "varchar"

	// Unknown is the type of null literals and of values whose type cannot
	// be narrowed. It is assignable to and from every type.
	Unknown Primitive = "unknown"
)

func (Primitive) typeNode() {}

func (p Primitive) String() string { return string(p) }

// ArrayType is a homogeneous array. Mixed-element arrays carry an Unknown
// element type.
type ArrayType struct {
	Elem Type
}

func (*ArrayType) typeNode() {}

func (a *ArrayType) String() string { return "array(" + a.Elem.String() + ")" }

// FunctionType is a function signature: ordered parameter types and a
// result type.
type FunctionType struct {
	Params []Type
	Result Type
}

func (*FunctionType) typeNode() {}

func (f *FunctionType) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + f.Result.String()
}

// Equal reports structural equality between two types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x == y
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && Equal(x.Elem, y.Elem)
	case *FunctionType:
		y, ok := b.(*FunctionType)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equal(x.Result, y.Result)
	default:
		return false
	}
}

// BindResultType computes the type of binding the leading `bound` arguments
// of a function: the first `bound` parameters are removed and the result is
// unchanged.
//
//	bound=1, (X1, X2) -> Y      gives (X2) -> Y
//	bound=2, (X1, X2, X3) -> Y  gives (X3) -> Y
//
// Binding zero arguments returns an identical signature. Binding more
// arguments than there are parameters is an error.
func BindResultType(fn *FunctionType, bound int) (*FunctionType, error) {
	if bound < 0 {
		return nil, fmt.Errorf("types: negative bound count %d", bound)
	}
	if bound > len(fn.Params) {
		return nil, fmt.Errorf("types: cannot bind %d values to function of arity %d", bound, len(fn.Params))
	}
	return &FunctionType{
		Params: slices.Clone(fn.Params[bound:]),
		Result: fn.Result,
	}, nil
}

// assignable reports whether a value of type `from` can be supplied where
// `to` is expected. Unknown is a wildcard on either side.
func assignable(from, to Type) bool {
	if Equal(from, to) {
		return true
	}
	if p, ok := from.(Primitive); ok && p == Unknown {
		return true
	}
	if p, ok := to.(Primitive); ok && p == Unknown {
		return true
	}
	return false
}
