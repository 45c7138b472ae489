package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuger6/trino/internal/ir"
)

func fnType(result Type, params ...Type) *FunctionType {
	return &FunctionType{Params: params, Result: result}
}

func TestBindResultTypeRemovesLeadingParams(t *testing.T) {
	fn := fnType(Boolean, Bigint, Varchar, Bigint)

	tests := []struct {
		bound int
		want  *FunctionType
	}{
		{0, fnType(Boolean, Bigint, Varchar, Bigint)},
		{1, fnType(Boolean, Varchar, Bigint)},
		{2, fnType(Boolean, Bigint)},
		{3, fnType(Boolean)},
	}
	for _, tt := range tests {
		got, err := BindResultType(fn, tt.bound)
		require.NoError(t, err, "bound=%d", tt.bound)
		assert.True(t, Equal(got, tt.want), "bound=%d: got %s, want %s", tt.bound, got, tt.want)
	}
}

func TestBindResultTypeRejectsOverflow(t *testing.T) {
	fn := fnType(Boolean, Bigint)

	_, err := BindResultType(fn, 2)
	assert.Error(t, err, "binding past the arity must fail")

	_, err = BindResultType(fn, -1)
	assert.Error(t, err)
}

func TestBindResultTypeDoesNotAliasInput(t *testing.T) {
	fn := fnType(Boolean, Bigint, Varchar)
	got, err := BindResultType(fn, 1)
	require.NoError(t, err)

	got.Params[0] = Bigint
	assert.True(t, Equal(fn.Params[1], Varchar), "input signature must not be mutated")
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, Equal(fnType(Boolean, Bigint), fnType(Boolean, Bigint)))
	assert.False(t, Equal(fnType(Boolean, Bigint), fnType(Boolean, Varchar)))
	assert.False(t, Equal(fnType(Boolean), Boolean))
	assert.True(t, Equal(&ArrayType{Elem: Bigint}, &ArrayType{Elem: Bigint}))
	assert.False(t, Equal(&ArrayType{Elem: Bigint}, &ArrayType{Elem: Unknown}))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "(bigint, varchar) -> boolean", fnType(Boolean, Bigint, Varchar).String())
	assert.Equal(t, "() -> bigint", fnType(Bigint).String())
	assert.Equal(t, "array(varchar)", (&ArrayType{Elem: Varchar}).String())
}

func TestDeriveBind(t *testing.T) {
	scope := Scope{
		"f": fnType(Bigint, Bigint, Bigint, Varchar),
	}

	// Binding the two leading bigint parameters leaves (varchar) -> bigint.
	e := ir.MustBind(ir.MustReference("f"),
		ir.MustConstant(ir.Int(1)),
		ir.MustConstant(ir.Int(2)))

	got, err := Derive(e, scope)
	require.NoError(t, err)
	assert.True(t, Equal(got, fnType(Bigint, Varchar)), "got %s", got)
}

func TestDeriveEmptyBindIsIdentity(t *testing.T) {
	scope := Scope{"f": fnType(Boolean, Bigint)}

	got, err := Derive(ir.MustBind(ir.MustReference("f")), scope)
	require.NoError(t, err)
	assert.True(t, Equal(got, scope["f"]), "binding zero values must preserve the signature")
}

func TestDeriveFullyBoundBind(t *testing.T) {
	scope := Scope{"f": fnType(Boolean, Bigint)}

	got, err := Derive(ir.MustBind(ir.MustReference("f"), ir.MustConstant(ir.Int(7))), scope)
	require.NoError(t, err)
	assert.True(t, Equal(got, fnType(Boolean)), "all parameters bound leaves () -> boolean")
}

func TestDeriveBindOverBind(t *testing.T) {
	scope := Scope{"f": fnType(Bigint, Bigint, Bigint, Bigint)}

	inner := ir.MustBind(ir.MustReference("f"), ir.MustConstant(ir.Int(1)))
	outer := ir.MustBind(inner, ir.MustConstant(ir.Int(2)))

	got, err := Derive(outer, scope)
	require.NoError(t, err)
	assert.True(t, Equal(got, fnType(Bigint, Bigint)), "got %s", got)
}

func TestDeriveBindErrors(t *testing.T) {
	scope := Scope{
		"f": fnType(Boolean, Bigint),
		"n": Bigint,
	}

	_, err := Derive(ir.MustBind(ir.MustReference("n")), scope)
	assert.ErrorContains(t, err, "not a function")

	_, err = Derive(ir.MustBind(ir.MustReference("f"),
		ir.MustConstant(ir.Int(1)), ir.MustConstant(ir.Int(2))), scope)
	assert.ErrorContains(t, err, "arity")

	_, err = Derive(ir.MustBind(ir.MustReference("f"), ir.MustConstant(ir.String("x"))), scope)
	assert.ErrorContains(t, err, "want bigint")
}

func TestDeriveLambdaAndCall(t *testing.T) {
	scope := Scope{
		"x":   Bigint,
		"add": fnType(Bigint, Bigint, Bigint),
	}

	lambda := ir.MustLambda([]string{"x"},
		ir.MustCall("add", ir.MustReference("x"), ir.MustConstant(ir.Int(1))))

	got, err := Derive(lambda, scope)
	require.NoError(t, err)
	assert.True(t, Equal(got, fnType(Bigint, Bigint)))
}

func TestDeriveDesugaredCapture(t *testing.T) {
	// Bind((c, x) -> add(c, x), c) has type (bigint) -> bigint: the capture
	// parameter is consumed by the bind, the real parameter remains.
	scope := Scope{
		"c":   Bigint,
		"x":   Bigint,
		"add": fnType(Bigint, Bigint, Bigint),
	}

	e := ir.MustBind(
		ir.MustLambda([]string{"c", "x"},
			ir.MustCall("add", ir.MustReference("c"), ir.MustReference("x"))),
		ir.MustReference("c"),
	)

	got, err := Derive(e, scope)
	require.NoError(t, err)
	assert.True(t, Equal(got, fnType(Bigint, Bigint)), "got %s", got)
}

func TestDeriveScalars(t *testing.T) {
	scope := Scope{"x": Bigint}

	tests := []struct {
		name string
		expr ir.Expression
		want Type
	}{
		{"int", ir.MustConstant(ir.Int(1)), Bigint},
		{"string", ir.MustConstant(ir.String("a")), Varchar},
		{"bool", ir.MustConstant(ir.Bool(true)), Boolean},
		{"null", ir.MustConstant(ir.Null{}), Unknown},
		{"array", ir.MustConstant(ir.Array{ir.Int(1), ir.Int(2)}), &ArrayType{Elem: Bigint}},
		{"mixed array", ir.MustConstant(ir.Array{ir.Int(1), ir.String("a")}), &ArrayType{Elem: Unknown}},
		{"comparison", ir.MustComparison(ir.OpEqual, ir.MustReference("x"), ir.MustConstant(ir.Int(1))), Boolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.expr, scope)
			require.NoError(t, err)
			assert.True(t, Equal(got, tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestDeriveErrors(t *testing.T) {
	scope := Scope{"x": Bigint, "s": Varchar}

	_, err := Derive(ir.MustReference("missing"), scope)
	assert.ErrorContains(t, err, "unresolved reference")

	_, err = Derive(ir.MustComparison(ir.OpEqual, ir.MustReference("x"), ir.MustReference("s")), scope)
	assert.ErrorContains(t, err, "cannot compare")

	_, err = Derive(ir.MustLogical(ir.OpAnd, ir.MustReference("x"), ir.MustReference("x")), scope)
	assert.ErrorContains(t, err, "want boolean")

	_, err = Derive(ir.MustLambda([]string{"p"}, ir.MustReference("p")), scope)
	assert.ErrorContains(t, err, "no declared type")
}
