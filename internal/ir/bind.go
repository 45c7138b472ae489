package ir

import (
	"errors"
	"fmt"
	"slices"
)

// Bind represents partial application: a function-valued expression with its
// leading arguments pre-supplied. When the bound function is invoked, the
// pre-supplied values are inserted before the caller's arguments, which pass
// through unchanged.
//
// Bind is first class, like any other expression, but its type cannot be
// written down as a fixed signature; it is computed from the function's
// type by removing the bound parameters:
//
//	X1, (X1, X2) -> Y        => (X2) -> Y
//	X1, (X1, X2, X3) -> Y    => (X2, X3) -> Y
//
// The node itself carries no type field; derivation is the type checker's
// job, as is rejecting a non-function target or too many bound values.
//
// Lambda capturing is implemented through desugaring: a lambda with free
// variables becomes a Bind of the captured references over a capture-free
// lambda. The function expression is therefore not necessarily a lambda;
// it can be another bind.
type Bind struct {
	values   []Expression
	function Expression
}

// NewBind creates a Bind from the pre-bound values and the function
// expression. The values slice may be empty (a bind of zero arguments is a
// legal identity wrapper) but must be non-nil, and every element non-nil.
// The slice is copied at construction so later mutation of the caller's
// slice cannot reach the node.
func NewBind(values []Expression, function Expression) (*Bind, error) {
	if values == nil {
		return nil, errors.New("ir: bind values is nil")
	}
	if function == nil {
		return nil, errors.New("ir: bind function is nil")
	}
	for i, v := range values {
		if v == nil {
			return nil, fmt.Errorf("ir: bind value %d is nil", i)
		}
	}
	return &Bind{values: slices.Clone(values), function: function}, nil
}

// MustBind is like NewBind but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustBind(function Expression, values ...Expression) *Bind {
	if values == nil {
		values = []Expression{}
	}
	b, err := NewBind(values, function)
	if err != nil {
		panic(err)
	}
	return b
}

func (*Bind) exprNode() {}

// Values returns a copy of the ordered pre-bound argument expressions.
func (b *Bind) Values() []Expression { return slices.Clone(b.values) }

// Function returns the function expression.
func (b *Bind) Function() Expression { return b.function }

// Children returns the values in order followed by the function, so generic
// traversal visits arguments before the function expression.
func (b *Bind) Children() []Expression {
	children := make([]Expression, 0, len(b.values)+1)
	children = append(children, b.values...)
	children = append(children, b.function)
	return children
}

// String renders the function first, then the values:
// Bind(f, v1, v2). With zero values the join is empty and the result is
// "Bind(f, )"; golden tests pin both shapes.
func (b *Bind) String() string {
	return fmt.Sprintf("Bind(%s, %s)", b.function, joinRenderings(b.values))
}
