package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/debuger6/trino/internal/ir"
)

// HashResult holds the hash command's JSON payload.
type HashResult struct {
	Fingerprint string `json:"fingerprint"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <expression-file>",
		Short: "Print the content fingerprint of an expression document",
		Long: `Load an expression document and print the domain-separated SHA-256
fingerprint of its canonical encoding. Structurally equal documents
always share a fingerprint.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, args[0], cmd)
		},
	}
}

func runHash(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	e, err := loadOrEmit(formatter, path)
	if err != nil {
		return err
	}

	fingerprint, err := ir.Fingerprint(e)
	if err != nil {
		return formatter.EmitError("E000", err)
	}

	return formatter.Emit(HashResult{Fingerprint: fingerprint}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, fingerprint)
		return err
	})
}
