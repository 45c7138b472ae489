package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/debuger6/trino/internal/sqlgen"
)

// SQLResult holds the sql command's JSON payload.
type SQLResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sql <expression-file>",
		Short: "Compile an expression document to a parameterized SQL fragment",
		Long: `Load an expression document and compile it into a SQL text fragment
with positional placeholders. Lambdas and binds have no SQL rendering
and are reported as unsupported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(rootOpts, args[0], cmd)
		},
	}
}

func runSQL(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	e, err := loadOrEmit(formatter, path)
	if err != nil {
		return err
	}

	sql, params, err := sqlgen.NewCompiler().Compile(e)
	if err != nil {
		var unsupported *sqlgen.UnsupportedError
		if errors.As(err, &unsupported) {
			return formatter.EmitError("E006", err)
		}
		return formatter.EmitError("E000", err)
	}
	if params == nil {
		params = []any{}
	}

	return formatter.Emit(SQLResult{SQL: sql, Params: params}, func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, sql); err != nil {
			return err
		}
		for _, p := range params {
			if _, err := fmt.Fprintf(w, "  ? = %v\n", p); err != nil {
				return err
			}
		}
		return nil
	})
}
