package types

import (
	"fmt"

	"github.com/debuger6/trino/internal/ir"
)

// Scope maps symbol names to types. Lambda parameters must be declared in
// the scope by the caller; the IR carries no parameter annotations.
type Scope map[string]Type

// Derive computes the type of an expression under the given scope.
//
// The bind case is the interesting one: the node stores no type, so its
// type is computed here from the function expression's signature by
// removing the bound parameters. A non-function target, too many bound
// values, or a value/parameter mismatch are all reported by this pass;
// the nodes themselves never check any of it.
func Derive(e ir.Expression, scope Scope) (Type, error) {
	switch n := e.(type) {
	case *ir.Constant:
		return valueType(n.Value()), nil

	case *ir.Reference:
		t, ok := scope[n.Name()]
		if !ok {
			return nil, fmt.Errorf("types: unresolved reference %q", n.Name())
		}
		return t, nil

	case *ir.Call:
		t, ok := scope[n.Function()]
		if !ok {
			return nil, fmt.Errorf("types: unresolved function %q", n.Function())
		}
		fn, ok := t.(*FunctionType)
		if !ok {
			return nil, fmt.Errorf("types: %q is not a function, it is %s", n.Function(), t)
		}
		args := n.Args()
		if len(args) != len(fn.Params) {
			return nil, fmt.Errorf("types: %q expects %d arguments, got %d", n.Function(), len(fn.Params), len(args))
		}
		for i, arg := range args {
			at, err := Derive(arg, scope)
			if err != nil {
				return nil, err
			}
			if !assignable(at, fn.Params[i]) {
				return nil, fmt.Errorf("types: argument %d of %q is %s, want %s", i, n.Function(), at, fn.Params[i])
			}
		}
		return fn.Result, nil

	case *ir.Lambda:
		params := n.Parameters()
		paramTypes := make([]Type, len(params))
		for i, p := range params {
			t, ok := scope[p]
			if !ok {
				return nil, fmt.Errorf("types: lambda parameter %q has no declared type in scope", p)
			}
			paramTypes[i] = t
		}
		body, err := Derive(n.Body(), scope)
		if err != nil {
			return nil, err
		}
		return &FunctionType{Params: paramTypes, Result: body}, nil

	case *ir.Bind:
		target, err := Derive(n.Function(), scope)
		if err != nil {
			return nil, err
		}
		fn, ok := target.(*FunctionType)
		if !ok {
			return nil, fmt.Errorf("types: bind target is not a function, it is %s", target)
		}
		values := n.Values()
		if len(values) > len(fn.Params) {
			return nil, fmt.Errorf("types: bind supplies %d values to function of arity %d", len(values), len(fn.Params))
		}
		for i, v := range values {
			vt, err := Derive(v, scope)
			if err != nil {
				return nil, err
			}
			if !assignable(vt, fn.Params[i]) {
				return nil, fmt.Errorf("types: bind value %d is %s, want %s", i, vt, fn.Params[i])
			}
		}
		return BindResultType(fn, len(values))

	case *ir.Comparison:
		left, err := Derive(n.Left(), scope)
		if err != nil {
			return nil, err
		}
		right, err := Derive(n.Right(), scope)
		if err != nil {
			return nil, err
		}
		if !assignable(left, right) && !assignable(right, left) {
			return nil, fmt.Errorf("types: cannot compare %s with %s", left, right)
		}
		return Boolean, nil

	case *ir.Logical:
		for i, term := range n.Terms() {
			t, err := Derive(term, scope)
			if err != nil {
				return nil, err
			}
			if !assignable(t, Boolean) {
				return nil, fmt.Errorf("types: %s term %d is %s, want boolean", n.Op(), i, t)
			}
		}
		return Boolean, nil

	default:
		return nil, fmt.Errorf("types: unknown expression variant %T", e)
	}
}

// valueType maps a literal value to its type.
func valueType(v ir.Value) Type {
	switch val := v.(type) {
	case ir.Null:
		return Unknown
	case ir.String:
		return Varchar
	case ir.Int:
		return Bigint
	case ir.Bool:
		return Boolean
	case ir.Array:
		if len(val) == 0 {
			return &ArrayType{Elem: Unknown}
		}
		elem := valueType(val[0])
		for _, e := range val[1:] {
			if !Equal(valueType(e), elem) {
				return &ArrayType{Elem: Unknown}
			}
		}
		return &ArrayType{Elem: elem}
	default:
		return Unknown
	}
}
