package validator

import (
	"fmt"

	"github.com/erraggy/oasconform/internal/pathutil"
	"github.com/erraggy/oasconform/oaserrors"
	"github.com/erraggy/oasconform/parser"
)

// Validator checks values against schemas of one component registry.
// A Validator is immutable after New and safe for concurrent use; every call
// keeps its own resolution state.
type Validator struct {
	reg *parser.Components
	cfg config
}

// New creates a Validator resolving references against reg. A nil reg is
// allowed for schemas without references.
func New(reg *parser.Components, opts ...Option) (*Validator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("validator: invalid options: %w", err)
		}
	}
	return &Validator{reg: reg, cfg: *cfg}, nil
}

// Validate checks value against schema with default options. References are
// resolved against reg. The result is empty when the value is valid.
func Validate(value any, schema parser.SchemaOrRef, reg *parser.Components) []ValidationError {
	v := &Validator{reg: reg, cfg: *defaultConfig()}
	return v.Validate(value, schema)
}

// Validate checks value against schema and returns every failure found,
// depth first. The result is empty when the value is valid.
func (v *Validator) Validate(value any, schema parser.SchemaOrRef) []ValidationError {
	w := v.newWalk()
	errs := w.node(value, schema)
	v.cfg.logger.Debug("validated value", "errors", len(errs))
	return errs
}

// ValidateSchema is Validate for an inline schema.
func (v *Validator) ValidateSchema(value any, schema *parser.Schema) []ValidationError {
	return v.Validate(value, parser.Inline(schema))
}

// ValidateComponent checks value against the component schema called name.
func (v *Validator) ValidateComponent(value any, name string) []ValidationError {
	return v.Validate(value, parser.RefTo[parser.Schema](parser.FormatRef(parser.KindSchemas, name)))
}

// walk is the state of one validation call.
type walk struct {
	v     *Validator
	path  *pathutil.PathBuilder
	depth int
	// active holds the $ref + value location pairs currently being expanded
	active map[string]struct{}
}

func (v *Validator) newWalk() *walk {
	return &walk{
		v:      v,
		path:   &pathutil.PathBuilder{},
		active: make(map[string]struct{}),
	}
}

func (w *walk) location() string {
	return w.path.String()
}

// fail builds an error anchored at the current location.
func (w *walk) fail(code Code, keyword, expected, actual, msg string) ValidationError {
	return ValidationError{
		Location: w.location(),
		Keyword:  keyword,
		Code:     code,
		Expected: expected,
		Actual:   actual,
		Message:  msg,
	}
}

// child validates value at one step below the current location.
func (w *walk) child(seg string, value any, schema parser.SchemaOrRef) []ValidationError {
	w.path.Push(seg)
	defer w.path.Pop()
	return w.node(value, schema)
}

// childIndex is child for an array index.
func (w *walk) childIndex(i int, value any, schema parser.SchemaOrRef) []ValidationError {
	w.path.PushIndex(i)
	defer w.path.Pop()
	return w.node(value, schema)
}

// node validates value against a schema or reference at the current location.
func (w *walk) node(value any, schema parser.SchemaOrRef) []ValidationError {
	if w.depth >= w.v.cfg.maxDepth {
		e := w.fail(CodeDepthExceeded, "", "", "",
			fmt.Sprintf("schema nesting exceeds %d levels", w.v.cfg.maxDepth))
		e.Err = &oaserrors.ResourceLimitError{
			ResourceType: "schema_depth",
			Limit:        int64(w.v.cfg.maxDepth),
			Actual:       int64(w.depth + 1),
		}
		return []ValidationError{e}
	}
	w.depth++
	defer func() { w.depth-- }()

	if schema.Ref == "" {
		if schema.Value == nil {
			return nil
		}
		return w.schema(value, schema.Value)
	}

	key := schema.Ref + "\x00" + w.location()
	if _, busy := w.active[key]; busy {
		e := w.fail(CodeReferenceFailure, "$ref", "", "",
			fmt.Sprintf("schema %s re-enters itself without consuming the value", schema.Ref))
		e.Err = &oaserrors.ReferenceError{
			Ref:     schema.Ref,
			Kind:    oaserrors.RefCircular,
			Message: "re-entered at " + displayLocation(e.Location),
		}
		return []ValidationError{e}
	}

	resolved, err := parser.DerefWith(w.v.reg, parser.NewResolutionContext(w.refDepth()), schema)
	if err != nil {
		e := w.fail(CodeReferenceFailure, "$ref", "", "", err.Error())
		e.Err = err
		return []ValidationError{e}
	}

	w.active[key] = struct{}{}
	defer delete(w.active, key)
	return w.schema(value, resolved)
}

func (w *walk) refDepth() int {
	if w.v.cfg.maxRefDepth > 0 {
		return w.v.cfg.maxRefDepth
	}
	return w.v.reg.MaxRefDepth()
}

func displayLocation(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}
