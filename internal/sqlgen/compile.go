// Package sqlgen compiles scalar IR expressions to parameterized SQL
// fragments for SQLite.
//
// Only the scalar subset is expressible: constants, references, calls,
// comparisons, and logical connectives. Function-valued expressions
// (lambda, bind) have no SQL spelling and are reported with
// UnsupportedError so callers can fall back to interpretation.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/debuger6/trino/internal/ir"
)

// UnsupportedError reports an expression outside the SQL-expressible
// subset.
type UnsupportedError struct {
	// Variant names the offending node variant.
	Variant string

	// Rendering is the node's textual form, for diagnostics.
	Rendering string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("sqlgen: %s is not expressible in SQL: %s", e.Variant, e.Rendering)
}

// Compiler compiles expressions to SQL text plus a parameter list.
// All values are parameterized, never interpolated.
type Compiler struct{}

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile converts an expression to a SQL fragment. Returns the fragment,
// its positional parameters in placeholder order, and an error for nil or
// non-scalar input.
func (c *Compiler) Compile(e ir.Expression) (string, []any, error) {
	if e == nil {
		return "", nil, fmt.Errorf("sqlgen: cannot compile nil expression")
	}

	switch n := e.(type) {
	case *ir.Constant:
		return c.compileConstant(n)
	case *ir.Reference:
		return quoteIdentifier(n.Name()), nil, nil
	case *ir.Call:
		return c.compileCall(n)
	case *ir.Comparison:
		return c.compileComparison(n)
	case *ir.Logical:
		return c.compileLogical(n)
	case *ir.Lambda:
		return "", nil, &UnsupportedError{Variant: "lambda", Rendering: n.String()}
	case *ir.Bind:
		return "", nil, &UnsupportedError{Variant: "bind", Rendering: n.String()}
	default:
		return "", nil, fmt.Errorf("sqlgen: unknown expression variant %T", e)
	}
}

// compileConstant emits a placeholder and the driver value.
func (c *Compiler) compileConstant(n *ir.Constant) (string, []any, error) {
	param, err := driverValue(n.Value())
	if err != nil {
		return "", nil, err
	}
	return "?", []any{param}, nil
}

// compileCall emits NAME(arg, ...). The function name is uppercased; SQL
// function names are case-insensitive and this matches how the fragments
// read in logs.
func (c *Compiler) compileCall(n *ir.Call) (string, []any, error) {
	fragments := make([]string, 0, len(n.Args()))
	var params []any
	for _, arg := range n.Args() {
		sql, argParams, err := c.Compile(arg)
		if err != nil {
			return "", nil, err
		}
		fragments = append(fragments, sql)
		params = append(params, argParams...)
	}
	return strings.ToUpper(n.Function()) + "(" + strings.Join(fragments, ", ") + ")", params, nil
}

func (c *Compiler) compileComparison(n *ir.Comparison) (string, []any, error) {
	left, params, err := c.Compile(n.Left())
	if err != nil {
		return "", nil, err
	}
	right, rightParams, err := c.Compile(n.Right())
	if err != nil {
		return "", nil, err
	}
	params = append(params, rightParams...)
	return "(" + left + " " + string(n.Op()) + " " + right + ")", params, nil
}

func (c *Compiler) compileLogical(n *ir.Logical) (string, []any, error) {
	fragments := make([]string, 0, len(n.Terms()))
	var params []any
	for _, term := range n.Terms() {
		sql, termParams, err := c.Compile(term)
		if err != nil {
			return "", nil, err
		}
		fragments = append(fragments, sql)
		params = append(params, termParams...)
	}
	return "(" + strings.Join(fragments, " "+string(n.Op())+" ") + ")", params, nil
}

// driverValue converts a literal to a database/sql parameter value.
// Arrays have no SQLite scalar representation.
func driverValue(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.Null:
		return nil, nil
	case ir.String:
		return string(val), nil
	case ir.Int:
		return int64(val), nil
	case ir.Bool:
		return bool(val), nil
	case ir.Array:
		return nil, fmt.Errorf("sqlgen: array literals are not expressible as SQL parameters")
	default:
		return nil, fmt.Errorf("sqlgen: unknown value type %T", v)
	}
}

// quoteIdentifier double-quotes an identifier, escaping embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
