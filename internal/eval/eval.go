// Package eval is a tree-walking evaluator for the expression IR.
//
// It is the reference consumer of bind semantics: evaluating a bind yields
// a callable with the pre-bound arguments attached, and invoking that
// callable inserts them before the caller's arguments, which pass through
// unchanged. The evaluator dispatches through the IR visitor, one method
// per variant.
package eval

import (
	"fmt"
	"strings"

	"github.com/debuger6/trino/internal/ir"
)

// Value is a sealed interface over runtime values: literal data plus the
// function-shaped values (builtins, closures, bound callables).
type Value interface {
	runtimeValue() // Sealed - only these types implement it
}

// Datum wraps a literal IR value.
type Datum struct {
	Val ir.Value
}

func (Datum) runtimeValue() {}

// Callable is the subset of runtime values that can be invoked.
type Callable interface {
	Value
	Invoke(args []Value) (Value, error)
}

// Builtin is a host function exposed to the IR by name.
type Builtin struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

func (*Builtin) runtimeValue() {}

// Invoke checks arity and calls the host function.
func (b *Builtin) Invoke(args []Value) (Value, error) {
	if len(args) != b.Arity {
		return nil, fmt.Errorf("eval: %q expects %d arguments, got %d", b.Name, b.Arity, len(args))
	}
	return b.Fn(args)
}

// Closure is a lambda paired with its defining environment.
type Closure struct {
	lambda *ir.Lambda
	env    *Env
}

func (*Closure) runtimeValue() {}

// Invoke binds the parameters in a child of the defining environment and
// evaluates the body.
func (c *Closure) Invoke(args []Value) (Value, error) {
	params := c.lambda.Parameters()
	if len(args) != len(params) {
		return nil, fmt.Errorf("eval: lambda expects %d arguments, got %d", len(params), len(args))
	}
	child := NewEnv(c.env)
	for i, p := range params {
		child.Define(p, args[i])
	}
	return Eval(c.lambda.Body(), child)
}

// Bound is a callable with leading arguments pre-supplied, the runtime
// counterpart of a bind node. Invoking it prepends the bound arguments.
type Bound struct {
	Target Callable
	Args   []Value
}

func (*Bound) runtimeValue() {}

// Invoke calls the target with the bound arguments first, then the
// caller's.
func (b *Bound) Invoke(args []Value) (Value, error) {
	full := make([]Value, 0, len(b.Args)+len(args))
	full = append(full, b.Args...)
	full = append(full, args...)
	return b.Target.Invoke(full)
}

// Env is a lexical environment: a name-to-value frame with a parent chain.
type Env struct {
	parent *Env
	vars   map[string]Value
}

// NewEnv creates an environment with the given parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]Value)}
}

// Define binds a name in this frame.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Lookup resolves a name through the parent chain.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// result threads a value-or-error pair through visitor dispatch.
type result struct {
	val Value
	err error
}

func ok(v Value) result { return result{val: v} }

func fail(format string, args ...any) result {
	return result{err: fmt.Errorf(format, args...)}
}

// evaluator implements ir.Visitor; the environment is the dispatch context.
type evaluator struct{}

// Eval evaluates an expression under the given environment.
func Eval(e ir.Expression, env *Env) (Value, error) {
	r := ir.Accept[result](e, evaluator{}, env)
	return r.val, r.err
}

// Apply invokes a function-shaped runtime value.
func Apply(v Value, args []Value) (Value, error) {
	c, ok := v.(Callable)
	if !ok {
		return nil, fmt.Errorf("eval: %T is not callable", v)
	}
	return c.Invoke(args)
}

func (evaluator) VisitConstant(n *ir.Constant, _ *Env) result {
	return ok(Datum{Val: n.Value()})
}

func (evaluator) VisitReference(n *ir.Reference, env *Env) result {
	v, found := env.Lookup(n.Name())
	if !found {
		return fail("eval: unresolved reference %q", n.Name())
	}
	return ok(v)
}

func (ev evaluator) VisitCall(n *ir.Call, env *Env) result {
	target, found := env.Lookup(n.Function())
	if !found {
		return fail("eval: unresolved function %q", n.Function())
	}
	callable, isCallable := target.(Callable)
	if !isCallable {
		return fail("eval: %q is not callable", n.Function())
	}
	args := make([]Value, 0, len(n.Args()))
	for i, arg := range n.Args() {
		r := ir.Accept[result](arg, ev, env)
		if r.err != nil {
			return fail("eval: argument %d of %q: %w", i, n.Function(), r.err)
		}
		args = append(args, r.val)
	}
	v, err := callable.Invoke(args)
	if err != nil {
		return result{err: err}
	}
	return ok(v)
}

func (evaluator) VisitLambda(n *ir.Lambda, env *Env) result {
	return ok(&Closure{lambda: n, env: env})
}

func (ev evaluator) VisitBind(n *ir.Bind, env *Env) result {
	bound := make([]Value, 0, len(n.Values()))
	for i, value := range n.Values() {
		r := ir.Accept[result](value, ev, env)
		if r.err != nil {
			return fail("eval: bind value %d: %w", i, r.err)
		}
		bound = append(bound, r.val)
	}
	fr := ir.Accept[result](n.Function(), ev, env)
	if fr.err != nil {
		return fail("eval: bind function: %w", fr.err)
	}
	callable, isCallable := fr.val.(Callable)
	if !isCallable {
		return fail("eval: bind target %T is not callable", fr.val)
	}
	return ok(&Bound{Target: callable, Args: bound})
}

func (ev evaluator) VisitComparison(n *ir.Comparison, env *Env) result {
	left := ir.Accept[result](n.Left(), ev, env)
	if left.err != nil {
		return left
	}
	right := ir.Accept[result](n.Right(), ev, env)
	if right.err != nil {
		return right
	}
	v, err := compare(n.Op(), left.val, right.val)
	if err != nil {
		return result{err: err}
	}
	return ok(Datum{Val: ir.Bool(v)})
}

func (ev evaluator) VisitLogical(n *ir.Logical, env *Env) result {
	for i, term := range n.Terms() {
		r := ir.Accept[result](term, ev, env)
		if r.err != nil {
			return r
		}
		b, err := truth(r.val)
		if err != nil {
			return fail("eval: %s term %d: %w", n.Op(), i, err)
		}
		// Short-circuit on the decisive term.
		if n.Op() == ir.OpAnd && !b {
			return ok(Datum{Val: ir.Bool(false)})
		}
		if n.Op() == ir.OpOr && b {
			return ok(Datum{Val: ir.Bool(true)})
		}
	}
	return ok(Datum{Val: ir.Bool(n.Op() == ir.OpAnd)})
}

// truth extracts a boolean from a runtime value.
func truth(v Value) (bool, error) {
	d, isDatum := v.(Datum)
	if !isDatum {
		return false, fmt.Errorf("%T is not a boolean", v)
	}
	b, isBool := d.Val.(ir.Bool)
	if !isBool {
		return false, fmt.Errorf("%s is not a boolean", d.Val)
	}
	return bool(b), nil
}

// compare evaluates a comparison over two scalar data values.
func compare(op ir.ComparisonOp, left, right Value) (bool, error) {
	l, lok := left.(Datum)
	r, rok := right.(Datum)
	if !lok || !rok {
		return false, fmt.Errorf("eval: cannot compare function values")
	}
	if _, isNull := l.Val.(ir.Null); isNull {
		return false, fmt.Errorf("eval: cannot compare null")
	}
	if _, isNull := r.Val.(ir.Null); isNull {
		return false, fmt.Errorf("eval: cannot compare null")
	}

	switch op {
	case ir.OpEqual:
		return ir.ValueEqual(l.Val, r.Val), nil
	case ir.OpNotEqual:
		return !ir.ValueEqual(l.Val, r.Val), nil
	}

	// Ordering operators need same-typed ordered scalars.
	switch a := l.Val.(type) {
	case ir.Int:
		b, okInt := r.Val.(ir.Int)
		if !okInt {
			return false, fmt.Errorf("eval: cannot compare %s with %s", l.Val, r.Val)
		}
		return ordered(op, int64(a), int64(b)), nil
	case ir.String:
		b, okStr := r.Val.(ir.String)
		if !okStr {
			return false, fmt.Errorf("eval: cannot compare %s with %s", l.Val, r.Val)
		}
		return ordered(op, strings.Compare(string(a), string(b)), 0), nil
	default:
		return false, fmt.Errorf("eval: %s does not support ordering", l.Val)
	}
}

func ordered[T int | int64](op ir.ComparisonOp, a, b T) bool {
	switch op {
	case ir.OpLessThan:
		return a < b
	case ir.OpLessOrEqual:
		return a <= b
	case ir.OpGreaterThan:
		return a > b
	case ir.OpGreaterOrEqual:
		return a >= b
	default:
		return false
	}
}
