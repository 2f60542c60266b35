package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/arff/internal/arff"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Relation  string `json:"relation,omitempty"`
	Rows      int    `json:"rows,omitempty"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
	Line      int    `json:"line,omitempty"`
	Attribute string `json:"attribute,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse a document and report format errors",
		Long: `Parse an ARFF document and report the first fatal error found.

Structural errors, value validation errors, and schema consistency
errors are fatal; dense rows with a mismatched field count are dropped
with a warning and do not fail validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	d, err := arff.Load(path)
	if err != nil {
		result := &ValidationResult{Valid: false, Error: err.Error()}
		var ferr *arff.Error
		if errors.As(err, &ferr) {
			result.Code = string(ferr.Code)
			result.Line = ferr.Line
			result.Attribute = ferr.Attribute
		}
		formatter.Success(result, func(w io.Writer) {
			fmt.Fprintln(w, "invalid: "+err.Error())
		})
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	formatter.VerboseLog("parsed %d row(s)", d.Len())
	result := &ValidationResult{Valid: true, Relation: d.Schema.Relation, Rows: d.Len()}
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "valid: relation %s with %d attribute(s) and %d row(s)\n",
			d.Schema.Relation, d.Schema.Len(), d.Len())
	})
}
