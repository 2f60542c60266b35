package arff

import (
	"fmt"
	"os"
	"sort"

	"github.com/roach88/arff/internal/schema"
	"github.com/roach88/arff/internal/value"
)

// Dataset owns a schema and either an in-memory row sequence or a
// live stream sink. The two storage modes are mutually exclusive:
// once OpenStream has been called, rows are serialized immediately and
// never retained.
type Dataset struct {
	Schema  *schema.Schema
	Comment string

	rows []Row
	sink *streamSink
	path string // source file, when loaded from one
}

// New creates an empty in-memory dataset for the named relation.
func New(relation string) *Dataset {
	return &Dataset{Schema: schema.New(relation)}
}

// NewWithSchema creates an empty dataset owning the given schema.
func NewWithSchema(s *schema.Schema) *Dataset {
	return &Dataset{Schema: s}
}

// Len returns the number of retained rows. Always zero while
// streaming.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns the retained rows in insertion order.
func (d *Dataset) Rows() []Row { return d.rows }

// Streaming reports whether the dataset has a live stream sink.
func (d *Dataset) Streaming() bool { return d.sink != nil }

// Path returns the file the dataset was loaded from, if any.
func (d *Dataset) Path() string { return d.path }

// Clone returns a deep copy. With schemaOnly set, the comment and
// rows are excluded. A streaming dataset clones to an in-memory one;
// the sink is never shared.
func (d *Dataset) Clone(schemaOnly bool) *Dataset {
	c := NewWithSchema(d.Schema.Clone())
	if schemaOnly {
		return c
	}
	c.Comment = d.Comment
	c.rows = make([]Row, 0, len(d.rows))
	for _, r := range d.rows {
		switch t := r.(type) {
		case DenseRow:
			cp := make(DenseRow, len(t))
			copy(cp, t)
			c.rows = append(c.rows, cp)
		case SparseRow:
			cp := make(SparseRow, len(t))
			for k, v := range t {
				cp[k] = v
			}
			c.rows = append(c.rows, cp)
		}
	}
	return c
}

// Field resolves the raw payload of the named attribute in a row.
// For sparse rows a missing value resolves to the missing marker;
// absence reports ok=false.
func (d *Dataset) Field(row Row, name string) (any, bool) {
	switch t := row.(type) {
	case DenseRow:
		i := d.Schema.Index(name)
		if i < 0 || i >= len(t) {
			return nil, false
		}
		return t[i], true
	case SparseRow:
		v, ok := t[name]
		if !ok {
			return nil, false
		}
		return v.Raw(), true
	default:
		return nil, false
	}
}

// Append inserts a row. Sparse rows go through the schema-evolution
// and class-consistency path; dense rows are validated positionally
// against the schema. While streaming, the row is serialized
// immediately instead of being retained.
func (d *Dataset) Append(row Row) error {
	switch t := row.(type) {
	case SparseRow:
		return d.appendSparse(t)
	case DenseRow:
		return d.appendDense(t)
	default:
		return fmt.Errorf("unknown row shape %T", row)
	}
}

// AppendNamed wraps raw scalars into typed values and appends the
// result as a sparse row. Declared attributes direct the wrapping;
// undeclared fields fall back to kind inference via value.Wrap.
func (d *Dataset) AppendNamed(fields map[string]any) error {
	row := make(SparseRow, len(fields))
	for name, raw := range fields {
		v, err := d.wrapField(name, raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		row[name] = v
	}
	return d.appendSparse(row)
}

func (d *Dataset) wrapField(name string, raw any) (value.Value, error) {
	if v, ok := raw.(value.Value); ok {
		return v, nil
	}
	if s, ok := raw.(string); ok && s == value.Missing {
		return value.NewString(s, false), nil
	}
	if attr, ok := d.Schema.Lookup(name); ok {
		return value.FromScalar(attr.Kind, raw, false)
	}
	return value.Wrap(raw)
}

// appendSparse applies the schema-evolution rules of the in-memory
// regime, or the trim-don't-reject rules of the streaming regime, then
// stores or serializes the row.
//
// Fields are processed in sorted name order so that inferred schema
// growth is deterministic.
func (d *Dataset) appendSparse(row SparseRow) error {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)

	schemaChanged := false
	for _, name := range names {
		v := row[name]
		if v == nil {
			return errorf(ErrCodeBadValue, 0, name, "nil value for attribute %q", name)
		}

		attr, declared := d.Schema.Lookup(name)
		if declared && !v.IsMissing() && attr.Kind != v.Kind() {
			return errorf(ErrCodeTypeConflict, 0, name,
				"attempting to set attribute %q to type %s but it is already defined as type %s",
				name, v.Kind(), attr.Kind)
		}

		if !declared {
			if d.Streaming() {
				// The header is already flushed: trim the field, never
				// mutate the schema.
				delete(row, name)
			} else {
				var err error
				attr, err = d.Schema.Define(name, v.Kind())
				if err != nil {
					return err
				}
				declared = true
				schemaChanged = true
			}
		}

		if nom, ok := v.(value.Nominal); ok && declared {
			if d.Streaming() {
				if !attr.Allows(nom.Text()) {
					delete(row, name)
				}
			} else if attr.AddValue(nom.Text()) {
				schemaChanged = true
			}
		}

		if v.Class() {
			switch d.Schema.Class() {
			case "":
				if declared {
					if err := d.Schema.SetClass(name); err != nil {
						return err
					}
				}
			case name:
				// Already the class attribute; order is re-enforced by
				// the schema on every mutation.
			default:
				return errorf(ErrCodeClassConflict, 0, name,
					"attempting to set class to %q when it has already been set to %q",
					name, d.Schema.Class())
			}
		}
	}

	if schemaChanged && d.Streaming() {
		return errorf(ErrCodeFrozenSchema, 0, "",
			"attempting to add data that does not match the schema while streaming")
	}

	if d.Streaming() {
		return d.streamRow(row)
	}
	d.rows = append(d.rows, row)
	return nil
}

// appendDense validates a positional row against the schema and
// stores it, or serializes it while streaming. Unlike the parse path,
// a length mismatch on the programmatic path is an error, not a
// dropped row.
func (d *Dataset) appendDense(values DenseRow) error {
	if len(values) != d.Schema.Len() {
		return errorf(ErrCodeBadValue, 0, "",
			"row contains %d values but the schema declares %d attributes",
			len(values), d.Schema.Len())
	}
	row := make(DenseRow, len(values))
	for i, raw := range values {
		attr := d.Schema.At(i)
		norm, err := normalizeDenseField(attr, raw, 0)
		if err != nil {
			return err
		}
		row[i] = norm
	}
	if d.Streaming() {
		return d.streamRow(row)
	}
	d.rows = append(d.rows, row)
	return nil
}

// normalizeDenseField coerces one dense field to its stored form.
// Date fields keep their raw text; decoding is deferred to the
// writer.
func normalizeDenseField(attr *schema.Attribute, raw any, line int) (any, error) {
	if s, ok := raw.(string); ok && s == value.Missing {
		return value.Missing, nil
	}
	switch attr.Kind {
	case value.KindInteger:
		v, err := value.NewInteger(raw, false)
		if err != nil {
			return nil, errorf(ErrCodeBadValue, line, attr.Name, "%v", err)
		}
		return v.Int64(), nil
	case value.KindNumeric:
		v, err := value.NewNumeric(raw, false)
		if err != nil {
			return nil, errorf(ErrCodeBadValue, line, attr.Name, "%v", err)
		}
		return v.Decimal(), nil
	case value.KindString:
		return value.NewString(raw, false).Text(), nil
	case value.KindNominal:
		text := value.NewNominal(raw, false).Text()
		if !attr.Allows(text) {
			return nil, errorf(ErrCodeNominalValue, line, attr.Name,
				"incorrect value %q for nominal attribute %q (allowed: %v)",
				text, attr.Name, attr.SortedValues())
		}
		return text, nil
	case value.KindDate:
		s, ok := raw.(string)
		if !ok {
			return nil, errorf(ErrCodeBadValue, line, attr.Name,
				"dense date fields hold raw text, got %T", raw)
		}
		return s, nil
	default:
		return nil, errorf(ErrCodeBadValue, line, attr.Name, "unknown attribute kind %s", attr.Kind)
	}
}

// Save writes the full document to path, or back to the file the
// dataset was loaded from when path is empty.
func (d *Dataset) Save(path string) error {
	if path == "" {
		path = d.path
	}
	if path == "" {
		return fmt.Errorf("no target path for save")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := d.Write(f, WriteOptions{}); err != nil {
		return err
	}
	return f.Close()
}
