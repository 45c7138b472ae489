package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/debuger6/trino/internal/ir"
)

// PrintResult holds the print command's JSON payload.
type PrintResult struct {
	Rendering string `json:"rendering"`
}

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "print <expression-file>",
		Short: "Render an expression document as text",
		Long: `Load an expression document, validate it against the IR schema, and
print its deterministic textual rendering.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Errors get our own output, not usage text
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(rootOpts, args[0], cmd)
		},
	}
}

func runPrint(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	e, err := loadOrEmit(formatter, path)
	if err != nil {
		return err
	}

	return formatter.Emit(PrintResult{Rendering: e.String()}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, e.String())
		return err
	})
}

// loadOrEmit loads a document and routes load failures through the
// formatter so JSON consumers get a structured error.
func loadOrEmit(formatter *OutputFormatter, path string) (ir.Expression, error) {
	formatter.VerboseLog("loading %s", path)
	e, loadErr := LoadExpression(path)
	if loadErr != nil {
		var le *LoadError
		if errors.As(loadErr, &le) {
			return nil, formatter.EmitError(le.Code, le)
		}
		return nil, formatter.EmitError("E000", loadErr)
	}
	return e, nil
}
