package ir

import "slices"

// Equal reports deep structural equality: same concrete variant and all
// fields recursively equal. Identity never matters; two independently
// constructed copies of the same tree are equal.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Constant:
		y, ok := b.(*Constant)
		return ok && ValueEqual(x.value, y.value)
	case *Reference:
		y, ok := b.(*Reference)
		return ok && x.name == y.name
	case *Call:
		y, ok := b.(*Call)
		return ok && x.function == y.function && equalExprs(x.args, y.args)
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && slices.Equal(x.parameters, y.parameters) && Equal(x.body, y.body)
	case *Bind:
		y, ok := b.(*Bind)
		return ok && equalExprs(x.values, y.values) && Equal(x.function, y.function)
	case *Comparison:
		y, ok := b.(*Comparison)
		return ok && x.op == y.op && Equal(x.left, y.left) && Equal(x.right, y.right)
	case *Logical:
		y, ok := b.(*Logical)
		return ok && x.op == y.op && equalExprs(x.terms, y.terms)
	default:
		return false
	}
}

// equalExprs compares two expression slices element for element, in order.
func equalExprs(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
