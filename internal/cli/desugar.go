package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/debuger6/trino/internal/desugar"
	"github.com/debuger6/trino/internal/ir"
)

// DesugarResult holds the desugar command's JSON payload.
type DesugarResult struct {
	Rendering  string          `json:"rendering"`
	Expression json.RawMessage `json:"expression"`
}

// NewDesugarCommand creates the desugar command.
func NewDesugarCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "desugar <expression-file>",
		Short: "Rewrite capturing lambdas into bind-over-lambda form",
		Long: `Load an expression document, rewrite every lambda that captures
enclosing references into a bind over a capture-free lambda, and print
the result. Expressions without captures pass through unchanged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesugar(rootOpts, args[0], cmd)
		},
	}
}

func runDesugar(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	e, err := loadOrEmit(formatter, path)
	if err != nil {
		return err
	}

	rewritten, err := desugar.Rewrite(e)
	if err != nil {
		return formatter.EmitError("E000", err)
	}

	data, err := ir.Encode(rewritten)
	if err != nil {
		return formatter.EmitError("E000", err)
	}

	return formatter.Emit(DesugarResult{Rendering: rewritten.String(), Expression: data}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, rewritten.String())
		return err
	})
}
