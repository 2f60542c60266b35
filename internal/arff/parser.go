package arff

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/arff/internal/value"
)

// commentMarker introduces comment lines in both the leading comment
// block and the data section.
const commentMarker = "%"

// Attribute declarations are tokenized with a single pattern that
// matches an unquoted identifier, a brace-delimited value list, or a
// quoted string. Nested braces and escaped commas inside the value
// list are not supported; that is a limitation of the format itself.
var (
	attrTokenPattern  = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_\-\[\]]*|\{[^}]*\}|'[^']+'|"[^"]+"`)
	surroundingQuotes = regexp.MustCompile(`^['"]|['"]$`)
	sparsePairPattern = regexp.MustCompile(`^([0-9]+)\s+(.*)$`)
)

func stripQuotes(s string) string {
	return surroundingQuotes.ReplaceAllString(s, "")
}

type parseState int

const (
	stateComment parseState = iota
	stateHeader
	stateData
)

// parser is the line-oriented state machine turning raw text into a
// dataset: Comment, then Header, then Data, which consumes all
// remaining lines.
type parser struct {
	d          *Dataset
	state      parseState
	line       int
	comment    []string
	schemaOnly bool
	done       bool
}

// Parse reads a complete ARFF document from text.
func Parse(text string) (*Dataset, error) {
	return parse(text, false)
}

// ParseSchema reads only the comment block and header, stopping at the
// data marker.
func ParseSchema(text string) (*Dataset, error) {
	return parse(text, true)
}

// Load reads a complete ARFF document from a file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	d, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	d.path = path
	return d, nil
}

// LoadSchema reads only the header of an ARFF file.
func LoadSchema(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ParseSchema(string(data))
}

func parse(text string, schemaOnly bool) (*Dataset, error) {
	d := New("")
	p := &parser{d: d, schemaOnly: schemaOnly}
	for _, line := range strings.Split(text, "\n") {
		p.line++
		if err := p.feed(line); err != nil {
			return nil, err
		}
		if p.done {
			break
		}
	}
	p.finishComment()
	return d, nil
}

func (p *parser) feed(line string) error {
	switch p.state {
	case stateComment:
		if strings.HasPrefix(line, commentMarker) {
			p.comment = append(p.comment, trimCommentMarker(line))
			return nil
		}
		// The comment block ends on the first non-comment line, which
		// is re-dispatched into the header state; no line is dropped.
		p.finishComment()
		p.state = stateHeader
		return p.feed(line)
	case stateHeader:
		return p.header(line)
	case stateData:
		return p.data(line)
	default:
		return fmt.Errorf("unknown parse state %d", p.state)
	}
}

func trimCommentMarker(line string) string {
	line = strings.TrimPrefix(line, commentMarker)
	return strings.TrimPrefix(line, " ")
}

func (p *parser) finishComment() {
	if p.state != stateComment {
		return
	}
	p.d.Comment = strings.Join(p.comment, "\n")
	p.comment = nil
}

// header matches the three directives case-insensitively. Lines
// matching none of them are silently ignored; unknown directives do
// not abort parsing.
func (p *parser) header(line string) error {
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "@relation "):
		fields := strings.Fields(line)
		if len(fields) > 1 {
			p.d.Schema.Relation = fields[1]
		}
		return nil
	case strings.HasPrefix(lower, "@attribute "):
		return p.attribute(line)
	case strings.HasPrefix(lower, "@data"):
		p.state = stateData
		if p.schemaOnly {
			p.done = true
		}
		return nil
	default:
		return nil
	}
}

// attribute parses one @attribute declaration.
func (p *parser) attribute(line string) error {
	tokens := attrTokenPattern.FindAllString(line, -1)
	if len(tokens) < 3 {
		return errorf(ErrCodeUnsupportedType, p.line, "",
			"malformed attribute declaration: %s", line)
	}
	// tokens[0] is the directive word itself.
	name := stripQuotes(tokens[1])
	kindTok := tokens[2]

	switch {
	case kindTok == "integer":
		_, err := p.d.Schema.Define(name, value.KindInteger)
		return err
	case kindTok == "real" || kindTok == "numeric":
		_, err := p.d.Schema.Define(name, value.KindNumeric)
		return err
	case kindTok == "string":
		_, err := p.d.Schema.Define(name, value.KindString)
		return err
	case kindTok == "date":
		pattern := ""
		if len(tokens) >= 4 {
			pattern = stripQuotes(tokens[3])
		}
		_, err := p.d.Schema.DefineDate(name, pattern)
		return err
	case strings.HasPrefix(kindTok, "{") && strings.HasSuffix(kindTok, "}"):
		inner := kindTok[1 : len(kindTok)-1]
		var values []string
		for _, v := range strings.Split(inner, ",") {
			values = append(values, strings.TrimSpace(v))
		}
		_, err := p.d.Schema.DefineNominal(name, values...)
		return err
	default:
		return errorf(ErrCodeUnsupportedType, p.line, name,
			"unsupported type %q for attribute %q", kindTok, name)
	}
}

// data dispatches one data-section line: comment lines are ignored,
// sparse rows are auto-detected by their leading brace, everything
// else parses as a dense row.
func (p *parser) data(line string) error {
	if strings.HasPrefix(line, commentMarker) {
		return nil
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		return p.sparseRow(trimmed)
	}
	return p.denseRow(trimmed)
}

// denseRow parses a comma-separated positional row. A field-count
// mismatch is non-fatal: the row is dropped with a warning naming the
// line and both counts.
func (p *parser) denseRow(line string) error {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) != p.d.Schema.Len() {
		slog.Warn("dense row length mismatch, dropping row",
			"line", p.line,
			"values", len(fields),
			"attributes", p.d.Schema.Len())
		return nil
	}
	row := make(DenseRow, len(fields))
	for i, field := range fields {
		attr := p.d.Schema.At(i)
		norm, err := normalizeDenseField(attr, field, p.line)
		if err != nil {
			return err
		}
		row[i] = norm
	}
	if p.d.Streaming() {
		// Streaming datasets never buffer: serialize immediately.
		return p.d.streamRow(row)
	}
	p.d.rows = append(p.d.rows, row)
	return nil
}

// sparseRow parses a brace-delimited row of "index value" pairs into
// a name-keyed row. Values are wrapped into the declared kind of the
// attribute the index selects; the missing marker always wraps as a
// String value, matching the writer's own convention.
func (p *parser) sparseRow(line string) error {
	if !strings.HasSuffix(line, "}") {
		return errorf(ErrCodeMalformedSparse, p.line, "",
			"malformed sparse data line: %s", line)
	}
	if p.d.Streaming() {
		return errorf(ErrCodeFrozenSchema, p.line, "",
			"sparse row parsing is not supported while streaming")
	}
	row := make(SparseRow)
	inner := line[1 : len(line)-1]
	for _, part := range splitUnescaped(inner, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := sparsePairPattern.FindStringSubmatch(part)
		if m == nil {
			return errorf(ErrCodeMalformedSparse, p.line, "",
				"sparse entry %q is not an index-value pair", part)
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 0 || idx >= p.d.Schema.Len() {
			return errorf(ErrCodeMalformedSparse, p.line, "",
				"sparse index %q selects no attribute", m[1])
		}
		tok := m[2]
		if len(tok) >= 2 && tok[0] == tok[len(tok)-1] && (tok[0] == '"' || tok[0] == '\'') {
			tok = tok[1 : len(tok)-1]
		}
		attr := p.d.Schema.At(idx)
		var v value.Value
		if tok == value.Missing {
			v = value.NewString(tok, false)
		} else {
			v, err = value.FromToken(attr.Kind, tok, false)
			if err != nil {
				return errorf(ErrCodeBadValue, p.line, attr.Name, "%v", err)
			}
		}
		row[attr.Name] = v
	}
	p.d.rows = append(p.d.rows, row)
	return nil
}

// splitUnescaped splits s on sep wherever sep is not preceded by a
// backslash.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep && (i == 0 || s[i-1] != '\\') {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
