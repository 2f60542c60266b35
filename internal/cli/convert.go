package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/arff/internal/arff"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		out  string
		rows string
	)
	cmd := &cobra.Command{
		Use:           "convert <file>",
		Short:         "Re-encode a document with dense or sparse rows",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], out, rows, cmd)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&rows, "rows", string(arff.Sparse), "row encoding (dense|sparse)")
	return cmd
}

func runConvert(opts *RootOptions, path, out, rows string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	enc := arff.Encoding(rows)
	if enc != arff.Dense && enc != arff.Sparse {
		return WrapExitError(ExitCommandError, "invalid row encoding "+rows, nil)
	}

	d, err := arff.Load(path)
	if err != nil {
		formatter.Error("PARSE_FAILED", err.Error())
		return WrapExitError(ExitFailure, "parse failed", err)
	}
	formatter.VerboseLog("parsed %d row(s) from %s", d.Len(), path)

	w := cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return WrapExitError(ExitCommandError, "create output file", err)
		}
		defer f.Close()
		w = f
	}
	if err := d.Write(w, arff.WriteOptions{Rows: enc}); err != nil {
		return WrapExitError(ExitFailure, "write failed", err)
	}
	return nil
}
