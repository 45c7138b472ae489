package testutil

import "github.com/debuger6/trino/internal/ir"

// Corpus returns a fresh slice of expressions covering every IR variant,
// from scalars up to nested binds. Tests that need "one of everything"
// (storage round trips, hashing, rendering) iterate this instead of
// repeating ad-hoc fixtures.
//
// Each call builds new trees, so callers may mutate freely.
func Corpus() []ir.Expression {
	return []ir.Expression{
		ir.MustConstant(ir.Int(42)),
		ir.MustConstant(ir.String("item")),
		ir.MustConstant(ir.Null{}),
		ir.MustConstant(ir.Bool(true)),
		ir.MustConstant(ir.Array{ir.Int(1), ir.Bool(true), ir.String("a")}),
		ir.MustReference("price"),
		ir.MustCall("add", ir.MustReference("price"), ir.MustConstant(ir.Int(1))),
		ir.MustLambda([]string{"x", "y"},
			ir.MustCall("mul", ir.MustReference("x"), ir.MustReference("y"))),
		ir.MustBind(ir.MustReference("f"),
			ir.MustConstant(ir.Int(1)), ir.MustConstant(ir.Int(2))),
		ir.MustBind(ir.MustReference("g")),
		CapturedAdd(),
		ir.MustComparison(ir.OpNotEqual,
			ir.MustReference("price"), ir.MustConstant(ir.Int(100))),
		ir.MustLogical(ir.OpAnd,
			ir.MustComparison(ir.OpEqual, ir.MustReference("x"), ir.MustConstant(ir.Int(1))),
			ir.MustComparison(ir.OpLessThan, ir.MustReference("y"), ir.MustConstant(ir.Int(2)))),
	}
}

// CapturedAdd returns the canonical desugared-capture fixture:
//
//	Bind((c, x) -> add(c, x), c)
//
// the shape a lambda over x capturing c lowers to.
func CapturedAdd() *ir.Bind {
	return ir.MustBind(
		ir.MustLambda([]string{"c", "x"},
			ir.MustCall("add", ir.MustReference("c"), ir.MustReference("x"))),
		ir.MustReference("c"),
	)
}
