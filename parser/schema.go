package parser

import (
	"regexp"
	"slices"
)

// JSON type names used in Schema.Type.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema is an OpenAPI 3.1 schema object.
//
// A Schema is either a boolean schema (Boolean is non-nil; true accepts every
// value and false accepts none) or an object schema whose keyword groups are
// each independently optional. A keyword only constrains values of the JSON
// type it applies to.
type Schema struct {
	// Boolean is set for the boolean schemas true and false.
	Boolean *bool

	// Type lists the allowed JSON types; nil means unconstrained.
	Type []string

	Enum     []any
	HasEnum  bool
	Const    any
	HasConst bool

	AllOf []SchemaOrRef
	AnyOf []SchemaOrRef
	OneOf []SchemaOrRef
	Not   *ObjectOrRef[Schema]

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	MinLength *int
	MaxLength *int
	Pattern   string

	PrefixItems []SchemaOrRef
	Items       *ObjectOrRef[Schema]
	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	Properties           map[string]SchemaOrRef
	Required             []string
	AdditionalProperties *ObjectOrRef[Schema]
	MinProperties        *int
	MaxProperties        *int

	Title       string
	Description string
	Format      string
	Default     any
	Example     any
	Examples    []any
	ReadOnly    bool
	WriteOnly   bool
	Deprecated  bool
	// Nullable is the OpenAPI 3.0 spelling of adding "null" to Type.
	Nullable bool
	// Discriminator is an annotation; it does not change what the schema
	// accepts.
	Discriminator *Discriminator
	Extensions    map[string]any

	// Invalid is set on the placeholder for a list entry that could not be
	// decoded. Such a schema accepts no value.
	Invalid string

	pattern    *regexp.Regexp
	patternErr error
}

// Discriminator names the property that selects among oneOf/anyOf
// alternatives, with optional value to schema reference mappings.
type Discriminator struct {
	PropertyName string
	Mapping      map[string]string
	Extensions   map[string]any
}

var (
	trueSchema  = true
	falseSchema = false
)

// BoolSchema returns the boolean schema b.
func BoolSchema(b bool) *Schema {
	if b {
		return &Schema{Boolean: &trueSchema}
	}
	return &Schema{Boolean: &falseSchema}
}

// invalidSchema is the placeholder kept for an undecodable list entry, so
// the entries after it keep their positions.
func invalidSchema(reason string) *Schema {
	return &Schema{Invalid: reason}
}

// IsBoolean reports whether s is a boolean schema.
func (s *Schema) IsBoolean() bool {
	return s != nil && s.Boolean != nil
}

// HasType reports whether t is listed in s.Type.
func (s *Schema) HasType(t string) bool {
	return slices.Contains(s.Type, t)
}

// PatternRegexp returns the compiled pattern of s. Patterns of loaded
// documents are compiled once at load time; a Schema built in code has its
// pattern compiled on each call.
func (s *Schema) PatternRegexp() (*regexp.Regexp, error) {
	if s.Pattern == "" {
		return nil, nil
	}
	if s.pattern != nil && s.pattern.String() == s.Pattern {
		return s.pattern, nil
	}
	if s.patternErr != nil {
		return nil, s.patternErr
	}
	return regexp.Compile(s.Pattern)
}

// compilePattern compiles s.Pattern into the schema. Go regular expressions
// follow RE2 syntax, so ECMA-262 constructs such as lookahead fail here.
func (s *Schema) compilePattern() error {
	if s.Pattern == "" {
		return nil
	}
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		s.patternErr = err
		return err
	}
	s.pattern = re
	return nil
}
