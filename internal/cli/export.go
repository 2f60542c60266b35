package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/arff/internal/arff"
	"github.com/roach88/arff/internal/store"
)

// ExportResult reports a completed sqlite export.
type ExportResult struct {
	Relation string `json:"relation"`
	Database string `json:"database"`
	Rows     int64  `json:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:           "export <file>",
		Short:         "Export a document into a SQLite database",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], db, cmd)
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "target sqlite database path (required)")
	cmd.MarkFlagRequired("db")
	return cmd
}

func runExport(opts *RootOptions, path, dbPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	d, err := arff.Load(path)
	if err != nil {
		formatter.Error("PARSE_FAILED", err.Error())
		return WrapExitError(ExitFailure, "parse failed", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer s.Close()

	rows, err := s.Export(cmd.Context(), d)
	if err != nil {
		return WrapExitError(ExitFailure, "export failed", err)
	}
	formatter.VerboseLog("exported %d row(s) to %s", rows, dbPath)

	result := &ExportResult{Relation: d.Schema.Relation, Database: dbPath, Rows: rows}
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "exported relation %s (%d rows) to %s\n", result.Relation, result.Rows, result.Database)
	})
}
