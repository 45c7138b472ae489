package ir

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Expression is a sealed interface over the closed set of IR node variants.
// Only types in this package implement it. The marker method pattern
// prevents external implementations and enables exhaustive type switches
// in downstream passes.
//
// Every variant is an immutable value: constructed once, never mutated,
// safe to share by reference across concurrent passes without locks.
type Expression interface {
	exprNode() // Marker method - seals interface to this package

	// Children returns the direct sub-expressions in a fixed, documented
	// order. Structural duplicates appear once per position. The returned
	// slice is freshly allocated; callers may keep or modify it.
	Children() []Expression

	// String renders the expression deterministically. Output depends only
	// on field values, never on identity, so it is stable across runs and
	// safe for golden-file comparison.
	String() string
}

// Constant is a literal value.
type Constant struct {
	value Value
}

// NewConstant creates a Constant. The value must be non-nil; use Null{}
// for an explicit null literal.
func NewConstant(v Value) (*Constant, error) {
	if v == nil {
		return nil, errors.New("ir: constant value is nil")
	}
	return &Constant{value: v}, nil
}

// MustConstant is like NewConstant but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustConstant(v Value) *Constant {
	c, err := NewConstant(v)
	if err != nil {
		panic(err)
	}
	return c
}

func (*Constant) exprNode() {}

// Value returns the literal value.
func (c *Constant) Value() Value { return c.value }

// Children returns nil; constants are leaves.
func (c *Constant) Children() []Expression { return nil }

func (c *Constant) String() string { return c.value.String() }

// Reference is a named reference to a variable in the enclosing scope,
// typically a lambda parameter or a symbol introduced by the planner.
type Reference struct {
	name string
}

// NewReference creates a Reference. The name must be non-empty.
func NewReference(name string) (*Reference, error) {
	if name == "" {
		return nil, errors.New("ir: reference name is empty")
	}
	return &Reference{name: name}, nil
}

// MustReference is like NewReference but panics on error.
func MustReference(name string) *Reference {
	r, err := NewReference(name)
	if err != nil {
		panic(err)
	}
	return r
}

func (*Reference) exprNode() {}

// Name returns the referenced symbol name.
func (r *Reference) Name() string { return r.name }

// Children returns nil; references are leaves.
func (r *Reference) Children() []Expression { return nil }

func (r *Reference) String() string { return r.name }

// Call is an application of a named function to an ordered argument list.
type Call struct {
	function string
	args     []Expression
}

// NewCall creates a Call. The function name must be non-empty and every
// argument non-nil. The argument slice may be empty but not nil-elemented;
// it is copied so later caller mutation cannot reach the node.
func NewCall(function string, args []Expression) (*Call, error) {
	if function == "" {
		return nil, errors.New("ir: call function name is empty")
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("ir: call argument %d is nil", i)
		}
	}
	return &Call{function: function, args: slices.Clone(args)}, nil
}

// MustCall is like NewCall but panics on error.
func MustCall(function string, args ...Expression) *Call {
	c, err := NewCall(function, args)
	if err != nil {
		panic(err)
	}
	return c
}

func (*Call) exprNode() {}

// Function returns the called function name.
func (c *Call) Function() string { return c.function }

// Args returns a copy of the ordered argument list.
func (c *Call) Args() []Expression { return slices.Clone(c.args) }

// Children returns the arguments in call order.
func (c *Call) Children() []Expression { return slices.Clone(c.args) }

func (c *Call) String() string {
	return c.function + "(" + joinRenderings(c.args) + ")"
}

// Lambda is an anonymous function literal: named parameters and a body.
// A lambda carries no captured environment; lexical captures are made
// explicit by the desugaring pass, which rewrites capturing lambdas into
// Bind nodes over capture-free ones.
type Lambda struct {
	parameters []string
	body       Expression
}

// NewLambda creates a Lambda. The body must be non-nil and parameter names
// non-empty and distinct. The parameter slice is copied.
func NewLambda(parameters []string, body Expression) (*Lambda, error) {
	if body == nil {
		return nil, errors.New("ir: lambda body is nil")
	}
	seen := make(map[string]bool, len(parameters))
	for i, p := range parameters {
		if p == "" {
			return nil, fmt.Errorf("ir: lambda parameter %d is empty", i)
		}
		if seen[p] {
			return nil, fmt.Errorf("ir: duplicate lambda parameter %q", p)
		}
		seen[p] = true
	}
	return &Lambda{parameters: slices.Clone(parameters), body: body}, nil
}

// MustLambda is like NewLambda but panics on error.
func MustLambda(parameters []string, body Expression) *Lambda {
	l, err := NewLambda(parameters, body)
	if err != nil {
		panic(err)
	}
	return l
}

func (*Lambda) exprNode() {}

// Parameters returns a copy of the ordered parameter names.
func (l *Lambda) Parameters() []string { return slices.Clone(l.parameters) }

// Body returns the lambda body.
func (l *Lambda) Body() Expression { return l.body }

// Children returns the body as the only child.
func (l *Lambda) Children() []Expression { return []Expression{l.body} }

func (l *Lambda) String() string {
	return "(" + strings.Join(l.parameters, ", ") + ") -> " + l.body.String()
}

// ComparisonOp identifies a binary comparison operator.
type ComparisonOp string

const (
	OpEqual          ComparisonOp = "="
	OpNotEqual       ComparisonOp = "<>"
	OpLessThan       ComparisonOp = "<"
	OpLessOrEqual    ComparisonOp = "<="
	OpGreaterThan    ComparisonOp = ">"
	OpGreaterOrEqual ComparisonOp = ">="
)

// comparisonOps lists the valid operators for construction-time checking.
var comparisonOps = map[ComparisonOp]bool{
	OpEqual:          true,
	OpNotEqual:       true,
	OpLessThan:       true,
	OpLessOrEqual:    true,
	OpGreaterThan:    true,
	OpGreaterOrEqual: true,
}

// Comparison is a binary comparison between two expressions.
type Comparison struct {
	op    ComparisonOp
	left  Expression
	right Expression
}

// NewComparison creates a Comparison. The operator must be a declared
// ComparisonOp and both sides non-nil.
func NewComparison(op ComparisonOp, left, right Expression) (*Comparison, error) {
	if !comparisonOps[op] {
		return nil, fmt.Errorf("ir: unknown comparison operator %q", op)
	}
	if left == nil {
		return nil, errors.New("ir: comparison left operand is nil")
	}
	if right == nil {
		return nil, errors.New("ir: comparison right operand is nil")
	}
	return &Comparison{op: op, left: left, right: right}, nil
}

// MustComparison is like NewComparison but panics on error.
func MustComparison(op ComparisonOp, left, right Expression) *Comparison {
	c, err := NewComparison(op, left, right)
	if err != nil {
		panic(err)
	}
	return c
}

func (*Comparison) exprNode() {}

// Op returns the comparison operator.
func (c *Comparison) Op() ComparisonOp { return c.op }

// Left returns the left operand.
func (c *Comparison) Left() Expression { return c.left }

// Right returns the right operand.
func (c *Comparison) Right() Expression { return c.right }

// Children returns left then right.
func (c *Comparison) Children() []Expression { return []Expression{c.left, c.right} }

func (c *Comparison) String() string {
	return "(" + c.left.String() + " " + string(c.op) + " " + c.right.String() + ")"
}

// LogicalOp identifies a logical connective.
type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// Logical is a conjunction or disjunction over two or more terms.
type Logical struct {
	op    LogicalOp
	terms []Expression
}

// NewLogical creates a Logical. At least two non-nil terms are required;
// the term slice is copied.
func NewLogical(op LogicalOp, terms []Expression) (*Logical, error) {
	if op != OpAnd && op != OpOr {
		return nil, fmt.Errorf("ir: unknown logical operator %q", op)
	}
	if len(terms) < 2 {
		return nil, fmt.Errorf("ir: logical %s requires at least 2 terms, got %d", op, len(terms))
	}
	for i, t := range terms {
		if t == nil {
			return nil, fmt.Errorf("ir: logical term %d is nil", i)
		}
	}
	return &Logical{op: op, terms: slices.Clone(terms)}, nil
}

// MustLogical is like NewLogical but panics on error.
func MustLogical(op LogicalOp, terms ...Expression) *Logical {
	l, err := NewLogical(op, terms)
	if err != nil {
		panic(err)
	}
	return l
}

func (*Logical) exprNode() {}

// Op returns the logical connective.
func (l *Logical) Op() LogicalOp { return l.op }

// Terms returns a copy of the ordered terms.
func (l *Logical) Terms() []Expression { return slices.Clone(l.terms) }

// Children returns the terms in original order.
func (l *Logical) Children() []Expression { return slices.Clone(l.terms) }

func (l *Logical) String() string {
	parts := make([]string, len(l.terms))
	for i, t := range l.terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " "+string(l.op)+" ") + ")"
}

// joinRenderings renders expressions comma-and-space separated.
func joinRenderings(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
