package schema

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/arff/internal/value"
)

// DefaultDatePattern is the Weka-style pattern used when a date
// attribute declares none. The Weka documentation claims an ISO-8601
// default with a literal 'T', but Weka itself rejects dates written
// that way, so the space-separated form is used instead.
const DefaultDatePattern = "yyyy-MM-dd HH:mm:ss"

// Attribute describes one declared attribute: its name, kind, and
// kind-specific extra data (nominal value set, or date pattern).
type Attribute struct {
	Name string
	Kind value.Kind

	// Nominal holds the allowed textual values for nominal
	// attributes; nil for every other kind.
	Nominal map[string]struct{}

	// Pattern is the Weka-style date pattern for date attributes.
	// Empty means DefaultDatePattern.
	Pattern string
}

// Allows reports whether v is a member of the nominal value set.
func (a *Attribute) Allows(v string) bool {
	_, ok := a.Nominal[v]
	return ok
}

// AddValue widens the nominal value set, reporting whether v was new.
func (a *Attribute) AddValue(v string) bool {
	if a.Nominal == nil {
		a.Nominal = make(map[string]struct{})
	}
	if _, ok := a.Nominal[v]; ok {
		return false
	}
	a.Nominal[v] = struct{}{}
	return true
}

// SortedValues returns the nominal value set sorted lexicographically,
// with the missing marker excluded. This is the header rendering
// order.
func (a *Attribute) SortedValues() []string {
	vals := make([]string, 0, len(a.Nominal))
	for v := range a.Nominal {
		if v == value.Missing {
			continue
		}
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}

func (a *Attribute) clone() *Attribute {
	c := &Attribute{Name: a.Name, Kind: a.Kind, Pattern: a.Pattern}
	if a.Nominal != nil {
		c.Nominal = make(map[string]struct{}, len(a.Nominal))
		for v := range a.Nominal {
			c.Nominal[v] = struct{}{}
		}
	}
	return c
}

// Schema is the ordered attribute list of a relation, with an optional
// class attribute designation.
type Schema struct {
	Relation string

	attrs []*Attribute
	index map[string]*Attribute
	class string
}

// New creates an empty schema for the named relation.
func New(relation string) *Schema {
	return &Schema{
		Relation: relation,
		index:    make(map[string]*Attribute),
	}
}

// Len returns the number of declared attributes.
func (s *Schema) Len() int { return len(s.attrs) }

// At returns the attribute at position i in schema order.
func (s *Schema) At(i int) *Attribute { return s.attrs[i] }

// Attributes returns the attributes in schema order. The slice is a
// copy; the attributes themselves are shared.
func (s *Schema) Attributes() []*Attribute {
	out := make([]*Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Names returns the attribute names in schema order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		out[i] = a.Name
	}
	return out
}

// Lookup finds an attribute by name.
func (s *Schema) Lookup(name string) (*Attribute, bool) {
	a, ok := s.index[name]
	return a, ok
}

// Index returns the position of the named attribute in schema order,
// or -1 if it is not declared.
func (s *Schema) Index(name string) int {
	for i, a := range s.attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Define appends a new attribute. Names are unique within a schema.
// The class attribute, if designated, is moved back to the last
// position afterwards.
func (s *Schema) Define(name string, kind value.Kind) (*Attribute, error) {
	if _, ok := s.index[name]; ok {
		return nil, fmt.Errorf("attribute %q is already defined", name)
	}
	a := &Attribute{Name: name, Kind: kind}
	if kind == value.KindNominal {
		a.Nominal = make(map[string]struct{})
	}
	if s.index == nil {
		s.index = make(map[string]*Attribute)
	}
	s.attrs = append(s.attrs, a)
	s.index[name] = a
	s.ensureClassLast()
	return a, nil
}

// DefineNominal appends a nominal attribute with the given allowed
// values.
func (s *Schema) DefineNominal(name string, values ...string) (*Attribute, error) {
	a, err := s.Define(name, value.KindNominal)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		a.AddValue(v)
	}
	return a, nil
}

// DefineDate appends a date attribute with the given Weka-style
// pattern; an empty pattern means DefaultDatePattern.
func (s *Schema) DefineDate(name, pattern string) (*Attribute, error) {
	a, err := s.Define(name, value.KindDate)
	if err != nil {
		return nil, err
	}
	a.Pattern = pattern
	return a, nil
}

// AddValues widens the value set of a nominal attribute.
func (s *Schema) AddValues(name string, values ...string) error {
	a, ok := s.index[name]
	if !ok {
		return fmt.Errorf("attribute %q is not defined", name)
	}
	if a.Kind != value.KindNominal {
		return fmt.Errorf("attribute %q is %s, not nominal", name, a.Kind)
	}
	for _, v := range values {
		a.AddValue(v)
	}
	return nil
}

// Class returns the designated class attribute name, or "" when none
// is designated.
func (s *Schema) Class() string { return s.class }

// SetClass designates the named attribute as the class attribute and
// moves it to the last position.
func (s *Schema) SetClass(name string) error {
	if _, ok := s.index[name]; !ok {
		return fmt.Errorf("attribute %q is not defined", name)
	}
	s.class = name
	s.ensureClassLast()
	return nil
}

// ensureClassLast moves the class attribute, if any, to the end of
// schema order.
func (s *Schema) ensureClassLast() {
	if s.class == "" {
		return
	}
	i := s.Index(s.class)
	if i < 0 || i == len(s.attrs)-1 {
		return
	}
	a := s.attrs[i]
	s.attrs = append(s.attrs[:i], s.attrs[i+1:]...)
	s.attrs = append(s.attrs, a)
}

// Alphabetize sorts the attributes by name, keeping the class
// attribute last.
func (s *Schema) Alphabetize() {
	sort.SliceStable(s.attrs, func(i, j int) bool {
		ic := s.attrs[i].Name == s.class
		jc := s.attrs[j].Name == s.class
		if ic != jc {
			return jc
		}
		return s.attrs[i].Name < s.attrs[j].Name
	})
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	c := New(s.Relation)
	c.class = s.class
	for _, a := range s.attrs {
		ca := a.clone()
		c.attrs = append(c.attrs, ca)
		c.index[ca.Name] = ca
	}
	return c
}

// TokenValue decodes a prediction token for the named attribute.
// Numeric kinds parse the token as their payload; nominal tokens use
// the "index:value" form emitted by Weka, and the value part must be a
// member of the declared set unless it is the missing marker. The
// missing marker decodes to nil.
func (s *Schema) TokenValue(name, token string) (any, error) {
	a, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("attribute %q is not defined", name)
	}
	if token == value.Missing {
		return nil, nil
	}
	switch a.Kind {
	case value.KindInteger:
		v, err := value.NewInteger(token, false)
		if err != nil {
			return nil, err
		}
		return v.Int64(), nil
	case value.KindNumeric:
		v, err := value.NewNumeric(token, false)
		if err != nil {
			return nil, err
		}
		return v.Decimal(), nil
	case value.KindNominal:
		_, val, found := strings.Cut(token, ":")
		if !found {
			return nil, fmt.Errorf("nominal token %q is not in index:value form", token)
		}
		if val != value.Missing && !a.Allows(val) {
			return nil, fmt.Errorf("predicted value %q for attribute %q is not in the allowed set %v",
				val, name, a.SortedValues())
		}
		return val, nil
	default:
		return nil, fmt.Errorf("attribute %q is %s; only numeric and nominal tokens can be decoded", name, a.Kind)
	}
}

// Fingerprint returns a canonical rendering of the schema used to
// detect mutation of an already-flushed header. The text is NFC
// normalized so equal headers compare equal bytes regardless of the
// Unicode composition of their source.
func (s *Schema) Fingerprint() string {
	var b strings.Builder
	b.WriteString(s.Relation)
	for _, a := range s.attrs {
		b.WriteByte('\n')
		b.WriteString(a.Name)
		b.WriteByte('|')
		b.WriteString(a.Kind.String())
		switch a.Kind {
		case value.KindNominal:
			b.WriteByte('|')
			b.WriteString(strings.Join(a.SortedValues(), ","))
		case value.KindDate:
			b.WriteByte('|')
			if a.Pattern != "" {
				b.WriteString(a.Pattern)
			} else {
				b.WriteString(DefaultDatePattern)
			}
		}
	}
	return norm.NFC.String(b.String())
}
