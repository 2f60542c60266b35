package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arff/internal/arff"
	"github.com/roach88/arff/internal/schema"
	"github.com/roach88/arff/internal/value"
)

// InfoResult summarizes a parsed document.
type InfoResult struct {
	Relation   string          `json:"relation"`
	Class      string          `json:"class,omitempty"`
	Rows       int             `json:"rows"`
	Attributes []AttributeInfo `json:"attributes"`
}

// AttributeInfo describes one attribute for the info listing.
type AttributeInfo struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Values  []string `json:"values,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "info <file>",
		Short:         "Show the relation, attributes, and row count of a document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], cmd)
		},
	}
}

func runInfo(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	d, err := arff.Load(path)
	if err != nil {
		formatter.Error("PARSE_FAILED", err.Error())
		return WrapExitError(ExitFailure, "parse failed", err)
	}

	result := buildInfo(d)
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintln(w, "Relation "+result.Relation)
		fmt.Fprintln(w, "  With attributes")
		for _, a := range result.Attributes {
			switch {
			case len(a.Values) > 0:
				fmt.Fprintf(w, "    %s of type nominal with values %s\n", a.Name, strings.Join(a.Values, ", "))
			case a.Pattern != "":
				fmt.Fprintf(w, "    %s of type %s with pattern %q\n", a.Name, a.Kind, a.Pattern)
			default:
				fmt.Fprintf(w, "    %s of type %s\n", a.Name, a.Kind)
			}
		}
		if result.Class != "" {
			fmt.Fprintln(w, "  Class attribute: "+result.Class)
		}
		fmt.Fprintf(w, "  %d row(s)\n", result.Rows)
	})
}

func buildInfo(d *arff.Dataset) *InfoResult {
	result := &InfoResult{
		Relation: d.Schema.Relation,
		Class:    d.Schema.Class(),
		Rows:     d.Len(),
	}
	for _, a := range d.Schema.Attributes() {
		info := AttributeInfo{Name: a.Name, Kind: a.Kind.String()}
		switch a.Kind {
		case value.KindNominal:
			info.Values = a.SortedValues()
		case value.KindDate:
			info.Pattern = a.Pattern
			if info.Pattern == "" {
				info.Pattern = schema.DefaultDatePattern
			}
		}
		result.Attributes = append(result.Attributes, info)
	}
	return result
}
