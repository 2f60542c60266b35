package arff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/arff/internal/schema"
	"github.com/roach88/arff/internal/value"
)

// Encoding selects a row encoding for writing.
type Encoding string

const (
	// Dense writes one comma-separated value per attribute in schema
	// order.
	Dense Encoding = "dense"

	// Sparse writes brace-delimited "index value" pairs, omitting
	// absent attributes. This is the default and the format's
	// space-saving mode.
	Sparse Encoding = "sparse"
)

// WriteOptions controls document writing. The zero value writes the
// full document with sparse rows.
type WriteOptions struct {
	Rows       Encoding // empty means Sparse
	SchemaOnly bool     // header only, no @data section
	DataOnly   bool     // @data section only, no header
}

// Write serializes the dataset to w.
func (d *Dataset) Write(w io.Writer, opts WriteOptions) error {
	if opts.SchemaOnly && opts.DataOnly {
		return fmt.Errorf("schema-only and data-only are mutually exclusive")
	}
	enc := opts.Rows
	if enc == "" {
		enc = Sparse
	}
	if enc != Dense && enc != Sparse {
		return fmt.Errorf("invalid row encoding %q", enc)
	}

	bw := bufio.NewWriter(w)
	if !opts.DataOnly {
		if err := d.writeHeader(bw); err != nil {
			return err
		}
	}
	if !opts.SchemaOnly {
		fmt.Fprintln(bw, "@data")
		for _, row := range d.rows {
			line, ok, err := d.rowLine(row, enc)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(bw, line)
			}
		}
	}
	return bw.Flush()
}

// Render serializes the dataset to a string.
func (d *Dataset) Render(opts WriteOptions) (string, error) {
	var b strings.Builder
	if err := d.Write(&b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeHeader emits the comment block, the relation directive, and
// one @attribute directive per attribute in schema order.
func (d *Dataset) writeHeader(w io.Writer) error {
	fmt.Fprintln(w, commentMarker+" "+strings.ReplaceAll(d.Comment, "\n", "\n"+commentMarker+" "))
	fmt.Fprintln(w, "@relation "+d.Schema.Relation)
	for _, a := range d.Schema.Attributes() {
		switch a.Kind {
		case value.KindInteger:
			fmt.Fprintln(w, "@attribute "+escapeName(a.Name)+" integer")
		case value.KindNumeric:
			fmt.Fprintln(w, "@attribute "+escapeName(a.Name)+" numeric")
		case value.KindString:
			fmt.Fprintln(w, "@attribute "+escapeName(a.Name)+" string")
		case value.KindNominal:
			fmt.Fprintln(w, "@attribute "+escapeName(a.Name)+" {"+strings.Join(a.SortedValues(), ",")+"}")
		case value.KindDate:
			fmt.Fprintf(w, "@attribute %s date %q\n", escapeName(a.Name), datePattern(a))
		default:
			return errorf(ErrCodeUnsupportedWrite, 0, a.Name,
				"type %s not supported for writing", a.Kind)
		}
	}
	return nil
}

func (d *Dataset) rowLine(row Row, enc Encoding) (string, bool, error) {
	if enc == Dense {
		line, err := d.denseLine(row)
		return line, err == nil, err
	}
	return d.sparseLine(row)
}

// denseLine emits attribute values in schema order, comma-joined.
// Only the integer, numeric, string, and nominal kinds can be written
// densely; anything else is a fatal error.
func (d *Dataset) denseLine(row Row) (string, error) {
	dr, ok := row.(DenseRow)
	if !ok {
		return "", errorf(ErrCodeUnsupportedWrite, 0, "",
			"name-keyed rows cannot be written densely")
	}
	tokens := make([]string, 0, len(dr))
	for i, raw := range dr {
		if i >= d.Schema.Len() {
			break
		}
		attr := d.Schema.At(i)
		switch attr.Kind {
		case value.KindInteger, value.KindNumeric:
			tokens = append(tokens, formatScalar(raw))
		case value.KindString:
			tokens = append(tokens, escapeName(formatScalar(raw)))
		case value.KindNominal:
			tokens = append(tokens, formatScalar(raw))
		default:
			return "", errorf(ErrCodeUnsupportedWrite, 0, attr.Name,
				"type %s not supported for writing", attr.Kind)
		}
	}
	return strings.Join(tokens, ","), nil
}

// sparseLine emits a brace-delimited row of "index value" pairs.
//
// Positional rows are first converted to name-keyed form using schema
// order. Absent attributes emit nothing; missing values emit the
// missing marker; nominal values outside their declared set are
// dropped silently. A row whose surviving tokens carry no informative
// content emits no line at all.
func (d *Dataset) sparseLine(row Row) (string, bool, error) {
	named, err := d.namedRow(row)
	if err != nil {
		return "", false, err
	}
	var tokens []string
	for i, attr := range d.Schema.Attributes() {
		v, present := named[attr.Name]
		if !present {
			continue
		}
		tok, err := d.resolveToken(attr, v)
		if err != nil {
			return "", false, err
		}
		if tok != value.Missing && attr.Kind == value.KindNominal && !attr.Allows(tok) {
			continue
		}
		tokens = append(tokens, strconv.Itoa(i)+" "+smartQuote(tok))
	}
	if len(tokens) == 0 {
		return "", false, nil
	}
	if len(tokens) == 1 && strings.Contains(tokens[0], value.Missing) {
		// A lone missing value, typically an unlabeled class column,
		// carries no content.
		return "", false, nil
	}
	return "{" + strings.Join(tokens, ", ") + "}", true, nil
}

// resolveToken unwraps one value to its sparse text form.
func (d *Dataset) resolveToken(attr *schema.Attribute, v value.Value) (string, error) {
	if v.IsMissing() {
		return value.Missing, nil
	}
	switch t := v.(type) {
	case value.String:
		return `"` + t.Text() + `"`, nil
	case value.Date:
		tok, err := formatDate(t, datePattern(attr))
		if err != nil {
			return "", errorf(ErrCodeBadValue, 0, attr.Name, "%v", err)
		}
		return tok, nil
	case value.Integer:
		return strconv.FormatInt(t.Int64(), 10), nil
	case value.Numeric:
		return t.Decimal().String(), nil
	case value.Nominal:
		return t.Text(), nil
	default:
		return "", errorf(ErrCodeUnsupportedWrite, 0, attr.Name, "unknown value type %T", v)
	}
}

// namedRow converts a positional row to name-keyed form, wrapping
// each raw scalar into the value kind declared for its attribute.
// Name-keyed rows pass through unchanged.
func (d *Dataset) namedRow(row Row) (SparseRow, error) {
	switch t := row.(type) {
	case SparseRow:
		return t, nil
	case DenseRow:
		named := make(SparseRow, len(t))
		for i, raw := range t {
			if i >= d.Schema.Len() {
				break
			}
			attr := d.Schema.At(i)
			if vv, ok := raw.(value.Value); ok {
				named[attr.Name] = vv
				continue
			}
			if s, ok := raw.(string); ok && s == value.Missing {
				named[attr.Name] = value.NewString(s, false)
				continue
			}
			v, err := value.FromScalar(attr.Kind, raw, false)
			if err != nil {
				return nil, errorf(ErrCodeBadValue, 0, attr.Name, "%v", err)
			}
			named[attr.Name] = v
		}
		return named, nil
	default:
		return nil, fmt.Errorf("unknown row shape %T", row)
	}
}

// escapeName wraps a name in single quotes, collapsing doubled quotes
// so that an already-quoted name is not quoted twice.
func escapeName(name string) string {
	return strings.ReplaceAll("'"+name+"'", "''", "'")
}

// smartQuote wraps tokens containing whitespace in double quotes,
// unless the token is already quoted.
func smartQuote(tok string) string {
	if strings.Contains(tok, " ") && !strings.HasPrefix(tok, `"`) {
		return `"` + tok + `"`
	}
	return tok
}

// ScalarText renders a raw row payload in its natural textual form.
func ScalarText(raw any) string {
	return formatScalar(raw)
}

func formatScalar(raw any) string {
	switch t := raw.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case decimal.Decimal:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(raw)
	}
}

func datePattern(a *schema.Attribute) string {
	if a.Pattern != "" {
		return a.Pattern
	}
	return schema.DefaultDatePattern
}
