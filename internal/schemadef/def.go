package schemadef

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/arff/internal/schema"
	"github.com/roach88/arff/internal/value"
)

//go:embed schema.cue
var schemaCUE string

// AttributeDef is one attribute entry of a definition file.
type AttributeDef struct {
	Name    string   `yaml:"name" json:"name"`
	Kind    string   `yaml:"kind" json:"kind"`
	Values  []string `yaml:"values,omitempty" json:"values,omitempty"`
	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Class   bool     `yaml:"class,omitempty" json:"class,omitempty"`
}

// Def is a parsed schema definition file.
type Def struct {
	Relation   string         `yaml:"relation" json:"relation"`
	Comment    string         `yaml:"comment,omitempty" json:"comment,omitempty"`
	Attributes []AttributeDef `yaml:"attributes" json:"attributes"`
}

// Load reads, validates, and compiles a definition file.
func Load(path string) (*schema.Schema, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read schema definition: %w", err)
	}
	return Parse(data)
}

// Parse validates and compiles definition file contents. It returns
// the compiled schema and the definition's comment block.
func Parse(data []byte) (*schema.Schema, string, error) {
	var def Def
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, "", fmt.Errorf("parse schema definition: %w", err)
	}
	if err := validate(&def); err != nil {
		return nil, "", err
	}
	s, err := compile(&def)
	if err != nil {
		return nil, "", err
	}
	return s, def.Comment, nil
}

// validate unifies the definition with the embedded CUE constraints.
func validate(def *Def) error {
	ctx := cuecontext.New()
	constraints := ctx.CompileString(schemaCUE)
	if err := constraints.Err(); err != nil {
		return fmt.Errorf("internal schema constraints: %w", err)
	}
	schemaVal := constraints.LookupPath(cue.ParsePath("#SchemaDef"))
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("internal schema constraints: %w", err)
	}
	unified := schemaVal.Unify(ctx.Encode(def))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid schema definition: %w", err)
	}
	return nil
}

// compile turns a validated definition into a schema. At most one
// attribute may be designated the class attribute; nominal attributes
// must declare at least one value.
func compile(def *Def) (*schema.Schema, error) {
	s := schema.New(def.Relation)
	classAttr := ""
	for _, a := range def.Attributes {
		kind, ok := value.ParseKind(a.Kind)
		if !ok {
			return nil, fmt.Errorf("attribute %q: unsupported kind %q", a.Name, a.Kind)
		}
		switch kind {
		case value.KindNominal:
			if len(a.Values) == 0 {
				return nil, fmt.Errorf("nominal attribute %q declares no values", a.Name)
			}
			if _, err := s.DefineNominal(a.Name, a.Values...); err != nil {
				return nil, err
			}
		case value.KindDate:
			if _, err := s.DefineDate(a.Name, a.Pattern); err != nil {
				return nil, err
			}
		default:
			if len(a.Values) > 0 {
				return nil, fmt.Errorf("attribute %q: values are only valid for nominal attributes", a.Name)
			}
			if _, err := s.Define(a.Name, kind); err != nil {
				return nil, err
			}
		}
		if a.Class {
			if classAttr != "" {
				return nil, fmt.Errorf("attributes %q and %q both claim the class designation", classAttr, a.Name)
			}
			classAttr = a.Name
		}
	}
	if classAttr != "" {
		if err := s.SetClass(classAttr); err != nil {
			return nil, err
		}
	}
	return s, nil
}
