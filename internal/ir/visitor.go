package ir

import "fmt"

// Visitor is the per-variant dispatch contract for IR-processing passes.
// R is the pass result type, C the pass context threaded through dispatch.
//
// A pass implements one method per variant; Accept performs the single
// exhaustive type switch, so passes specialize behavior without their own
// runtime type inspection.
type Visitor[R, C any] interface {
	VisitConstant(*Constant, C) R
	VisitReference(*Reference, C) R
	VisitCall(*Call, C) R
	VisitLambda(*Lambda, C) R
	VisitBind(*Bind, C) R
	VisitComparison(*Comparison, C) R
	VisitLogical(*Logical, C) R
}

// Accept dispatches e to the visitor method for its concrete variant and
// returns that method's result. Dispatch itself introduces no failure mode;
// the variant set is sealed, so the default arm is unreachable for any
// expression constructed by this package.
func Accept[R, C any](e Expression, v Visitor[R, C], ctx C) R {
	switch n := e.(type) {
	case *Constant:
		return v.VisitConstant(n, ctx)
	case *Reference:
		return v.VisitReference(n, ctx)
	case *Call:
		return v.VisitCall(n, ctx)
	case *Lambda:
		return v.VisitLambda(n, ctx)
	case *Bind:
		return v.VisitBind(n, ctx)
	case *Comparison:
		return v.VisitComparison(n, ctx)
	case *Logical:
		return v.VisitLogical(n, ctx)
	default:
		panic(fmt.Sprintf("ir: unknown expression variant %T", e))
	}
}

// Walk traverses e in pre-order, calling fn for each node. If fn returns
// false the node's subtree is pruned. Terminates because IR trees are
// acyclic by construction.
func Walk(e Expression, fn func(Expression) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, child := range e.Children() {
		Walk(child, fn)
	}
}
