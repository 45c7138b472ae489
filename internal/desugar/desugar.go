// Package desugar rewrites capturing lambdas into bind expressions.
//
// The IR has no closure concept: a lambda is just parameters and a body.
// Source-language lambdas that reference enclosing variables are lowered
// here by making each capture explicit - the captured references become the
// pre-bound values of a Bind whose function is a capture-free lambda taking
// the captured names as extra leading parameters:
//
//	(x) -> add(c, x)   becomes   Bind(c, (c, x) -> add(c, x))
//
// Every later pass can then treat the result as an ordinary expression.
package desugar

import (
	"fmt"

	"github.com/debuger6/trino/internal/ir"
)

// Rewrite returns e with every capturing lambda replaced by a bind over a
// capture-free lambda. Trees without captures come back structurally equal
// to their input, and the rewrite is idempotent. Capture order is the order
// of first use in the lambda body, so the output is deterministic.
func Rewrite(e ir.Expression) (ir.Expression, error) {
	switch n := e.(type) {
	case *ir.Constant, *ir.Reference:
		return e, nil

	case *ir.Call:
		args, err := rewriteSlice(n.Args())
		if err != nil {
			return nil, err
		}
		return ir.NewCall(n.Function(), args)

	case *ir.Comparison:
		left, err := Rewrite(n.Left())
		if err != nil {
			return nil, err
		}
		right, err := Rewrite(n.Right())
		if err != nil {
			return nil, err
		}
		return ir.NewComparison(n.Op(), left, right)

	case *ir.Logical:
		terms, err := rewriteSlice(n.Terms())
		if err != nil {
			return nil, err
		}
		return ir.NewLogical(n.Op(), terms)

	case *ir.Bind:
		values, err := rewriteSlice(n.Values())
		if err != nil {
			return nil, err
		}
		function, err := Rewrite(n.Function())
		if err != nil {
			return nil, err
		}
		return ir.NewBind(values, function)

	case *ir.Lambda:
		return rewriteLambda(n)

	default:
		return nil, fmt.Errorf("desugar: unknown expression variant %T", e)
	}
}

// MustRewrite is like Rewrite but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRewrite(e ir.Expression) ir.Expression {
	out, err := Rewrite(e)
	if err != nil {
		panic(err)
	}
	return out
}

func rewriteSlice(exprs []ir.Expression) ([]ir.Expression, error) {
	out := make([]ir.Expression, len(exprs))
	for i, e := range exprs {
		rewritten, err := Rewrite(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = rewritten
	}
	return out, nil
}

// rewriteLambda desugars bottom-up: inner lambdas first, so their captures
// surface as free references in this lambda's body before this lambda's own
// captures are computed.
func rewriteLambda(l *ir.Lambda) (ir.Expression, error) {
	body, err := Rewrite(l.Body())
	if err != nil {
		return nil, err
	}

	params := l.Parameters()
	bound := make(map[string]bool, len(params))
	for _, p := range params {
		bound[p] = true
	}

	captured := freeReferences(body, bound)
	if len(captured) == 0 {
		return ir.NewLambda(params, body)
	}

	inner, err := ir.NewLambda(append(captured, params...), body)
	if err != nil {
		return nil, fmt.Errorf("desugar: lambda capturing %v: %w", captured, err)
	}
	values := make([]ir.Expression, len(captured))
	for i, name := range captured {
		values[i], err = ir.NewReference(name)
		if err != nil {
			return nil, err
		}
	}
	return ir.NewBind(values, inner)
}

// freeReferences returns the names referenced in e but not bound, in order
// of first use. Nested lambdas shadow their own parameters.
func freeReferences(e ir.Expression, bound map[string]bool) []string {
	var order []string
	seen := make(map[string]bool)
	collectFree(e, bound, seen, &order)
	return order
}

func collectFree(e ir.Expression, bound, seen map[string]bool, order *[]string) {
	switch n := e.(type) {
	case *ir.Reference:
		if !bound[n.Name()] && !seen[n.Name()] {
			seen[n.Name()] = true
			*order = append(*order, n.Name())
		}

	case *ir.Lambda:
		inner := make(map[string]bool, len(bound)+len(n.Parameters()))
		for name := range bound {
			inner[name] = true
		}
		for _, p := range n.Parameters() {
			inner[p] = true
		}
		collectFree(n.Body(), inner, seen, order)

	default:
		for _, child := range e.Children() {
			collectFree(child, bound, seen, order)
		}
	}
}
