package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/arff/internal/arff"
	"github.com/roach88/arff/internal/schemadef"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		def string
		out string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Build an empty ARFF document from a schema definition",
		Long: `Build an empty ARFF document from a YAML schema definition.

The definition names the relation and its attributes; it is validated
against the embedded constraints before the header is written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, def, out, cmd)
		},
	}
	cmd.Flags().StringVar(&def, "schema", "", "schema definition file (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func runInit(opts *RootOptions, defPath, out string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, comment, err := schemadef.Load(defPath)
	if err != nil {
		formatter.Error("INVALID_DEFINITION", err.Error())
		return WrapExitError(ExitFailure, "invalid schema definition", err)
	}
	d := arff.NewWithSchema(s)
	d.Comment = comment
	formatter.VerboseLog("compiled schema with %d attribute(s)", s.Len())

	w := cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return WrapExitError(ExitCommandError, "create output file", err)
		}
		defer f.Close()
		w = f
	}
	return d.Write(w, arff.WriteOptions{})
}
