package validator

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/erraggy/oasconform/internal/stringutil"
	"github.com/erraggy/oasconform/parser"
)

// multipleOfTolerance is the relative distance from an integer quotient
// still accepted by multipleOf.
const multipleOfTolerance = 1e-9

// schema evaluates the keywords of a resolved schema against value.
func (w *walk) schema(value any, s *parser.Schema) []ValidationError {
	if s.IsBoolean() {
		if *s.Boolean {
			return nil
		}
		return []ValidationError{w.fail(CodeRejectedByFalseSchema, "false", "no value", describe(value),
			"no value is accepted by the false schema")}
	}
	if s.Invalid != "" {
		return []ValidationError{w.fail(CodeInvalidSchema, "", "", describe(value), "invalid schema: "+s.Invalid)}
	}

	actual := typeOf(value)
	if e, ok := w.checkType(actual, s); !ok {
		return []ValidationError{e}
	}

	var errs []ValidationError
	errs = append(errs, w.enumConst(value, s)...)
	errs = append(errs, w.composition(value, s)...)

	switch actual {
	case parser.TypeInteger, parser.TypeNumber:
		if n, ok := toNumber(value); ok {
			errs = append(errs, w.numeric(n, s)...)
		}
	case parser.TypeString:
		errs = append(errs, w.str(value.(string), s)...)
	case parser.TypeArray:
		errs = append(errs, w.array(value.([]any), s)...)
	case parser.TypeObject:
		errs = append(errs, w.object(value.(map[string]any), s)...)
	}
	return errs
}

func (w *walk) checkType(actual string, s *parser.Schema) (ValidationError, bool) {
	if len(s.Type) == 0 {
		return ValidationError{}, true
	}
	if actual == parser.TypeNull && s.Nullable {
		return ValidationError{}, true
	}
	for _, t := range s.Type {
		if typeAllows(t, actual) {
			return ValidationError{}, true
		}
	}
	expected := strings.Join(s.Type, " or ")
	return w.fail(CodeTypeMismatch, "type", expected, actual,
		fmt.Sprintf("expected type %s but got %s", expected, actual)), false
}

func (w *walk) enumConst(value any, s *parser.Schema) []ValidationError {
	var errs []ValidationError
	if s.HasEnum && !slices.ContainsFunc(s.Enum, func(e any) bool { return equalValues(value, e) }) {
		allowed := make([]string, len(s.Enum))
		for i, e := range s.Enum {
			allowed[i] = describe(e)
		}
		expected := "one of [" + strings.Join(allowed, ", ") + "]"
		errs = append(errs, w.fail(CodeEnumMismatch, "enum", expected, describe(value),
			fmt.Sprintf("value %s is not %s", describe(value), expected)))
	}
	if s.HasConst && !equalValues(value, s.Const) {
		errs = append(errs, w.fail(CodeEnumMismatch, "const", describe(s.Const), describe(value),
			fmt.Sprintf("value %s does not equal the constant %s", describe(value), describe(s.Const))))
	}
	return errs
}

// composition evaluates allOf, anyOf, oneOf and not. Each branch is a full
// validation at the same location.
func (w *walk) composition(value any, s *parser.Schema) []ValidationError {
	var errs []ValidationError

	for _, branch := range s.AllOf {
		errs = append(errs, w.node(value, branch)...)
	}

	if len(s.AnyOf) > 0 {
		var causes []ValidationError
		matched := false
		for _, branch := range s.AnyOf {
			be := w.node(value, branch)
			if len(be) == 0 {
				matched = true
				break
			}
			causes = append(causes, be...)
		}
		if !matched {
			e := w.fail(CodeNoBranchMatched, "anyOf", "at least one matching branch", "none",
				fmt.Sprintf("value does not match any of the %d anyOf schemas", len(s.AnyOf)))
			e.Causes = causes
			errs = append(errs, e)
		}
	}

	if len(s.OneOf) > 0 {
		var causes []ValidationError
		var matches []string
		for i, branch := range s.OneOf {
			be := w.node(value, branch)
			if len(be) == 0 {
				matches = append(matches, strconv.Itoa(i))
				continue
			}
			causes = append(causes, be...)
		}
		switch len(matches) {
		case 1:
		case 0:
			e := w.fail(CodeNoBranchMatched, "oneOf", "exactly one matching branch", "none",
				fmt.Sprintf("value does not match any of the %d oneOf schemas", len(s.OneOf)))
			e.Causes = causes
			errs = append(errs, e)
		default:
			errs = append(errs, w.fail(CodeAmbiguousMatch, "oneOf", "exactly one matching branch",
				"branches "+strings.Join(matches, ", "),
				fmt.Sprintf("value matches %d oneOf schemas (%s), expected exactly 1", len(matches), strings.Join(matches, ", "))))
		}
	}

	if s.Not != nil && len(w.node(value, *s.Not)) == 0 {
		errs = append(errs, w.fail(CodeNegatedSchemaMatched, "not", "value rejected by the not schema", "accepted",
			"value must not match the not schema"))
	}
	return errs
}

func (w *walk) numeric(n float64, s *parser.Schema) []ValidationError {
	var errs []ValidationError
	bound := func(keyword string, limit *float64, ok func(float64, float64) bool, rel string) {
		if limit == nil || ok(n, *limit) {
			return
		}
		expected := rel + " " + formatNumber(*limit)
		errs = append(errs, w.fail(CodeConstraintViolation, keyword, expected, formatNumber(n),
			fmt.Sprintf("value %s must be %s", formatNumber(n), expected)))
	}
	bound("minimum", s.Minimum, func(v, l float64) bool { return v >= l }, ">=")
	bound("exclusiveMinimum", s.ExclusiveMinimum, func(v, l float64) bool { return v > l }, ">")
	bound("maximum", s.Maximum, func(v, l float64) bool { return v <= l }, "<=")
	bound("exclusiveMaximum", s.ExclusiveMaximum, func(v, l float64) bool { return v < l }, "<")

	if s.MultipleOf != nil && *s.MultipleOf > 0 && !isMultipleOf(n, *s.MultipleOf) {
		expected := "multiple of " + formatNumber(*s.MultipleOf)
		errs = append(errs, w.fail(CodeConstraintViolation, "multipleOf", expected, formatNumber(n),
			fmt.Sprintf("value %s is not a %s", formatNumber(n), expected)))
	}
	return errs
}

// isMultipleOf checks that n/d is an integer up to a relative tolerance, so
// that 0.3 is a multiple of 0.1 despite binary rounding.
func isMultipleOf(n, d float64) bool {
	q := n / d
	if math.IsInf(q, 0) || math.IsNaN(q) {
		return false
	}
	diff := math.Abs(q - math.Round(q))
	return diff <= multipleOfTolerance*math.Max(1, math.Abs(q))
}

func (w *walk) str(v string, s *parser.Schema) []ValidationError {
	var errs []ValidationError
	length := utf8.RuneCountInString(v)
	if s.MinLength != nil && length < *s.MinLength {
		errs = append(errs, w.fail(CodeConstraintViolation, "minLength",
			fmt.Sprintf("length >= %d", *s.MinLength), strconv.Itoa(length),
			fmt.Sprintf("string length %d is less than minimum %d", length, *s.MinLength)))
	}
	if s.MaxLength != nil && length > *s.MaxLength {
		errs = append(errs, w.fail(CodeConstraintViolation, "maxLength",
			fmt.Sprintf("length <= %d", *s.MaxLength), strconv.Itoa(length),
			fmt.Sprintf("string length %d exceeds maximum %d", length, *s.MaxLength)))
	}
	if s.Pattern != "" {
		re, err := s.PatternRegexp()
		switch {
		case err != nil:
			e := w.fail(CodeInvalidSchema, "pattern", s.Pattern, "",
				fmt.Sprintf("invalid pattern %q: %v", s.Pattern, err))
			e.Err = err
			errs = append(errs, e)
		case !re.MatchString(v):
			errs = append(errs, w.fail(CodeConstraintViolation, "pattern", s.Pattern, describe(v),
				fmt.Sprintf("string does not match pattern %q", s.Pattern)))
		}
	}
	if s.Format != "" && w.v.cfg.formatAssertions {
		if valid, known := stringutil.CheckFormat(s.Format, v); known && !valid {
			errs = append(errs, w.fail(CodeConstraintViolation, "format", s.Format, describe(v),
				fmt.Sprintf("%s is not a valid %s", describe(v), s.Format)))
		}
	}
	return errs
}

func (w *walk) array(arr []any, s *parser.Schema) []ValidationError {
	var errs []ValidationError
	count := len(arr)
	if s.MinItems != nil && count < *s.MinItems {
		errs = append(errs, w.fail(CodeConstraintViolation, "minItems",
			fmt.Sprintf("at least %d items", *s.MinItems), strconv.Itoa(count),
			fmt.Sprintf("array has %d items, minimum is %d", count, *s.MinItems)))
	}
	if s.MaxItems != nil && count > *s.MaxItems {
		errs = append(errs, w.fail(CodeConstraintViolation, "maxItems",
			fmt.Sprintf("at most %d items", *s.MaxItems), strconv.Itoa(count),
			fmt.Sprintf("array has %d items, maximum is %d", count, *s.MaxItems)))
	}
	if s.UniqueItems {
		if i, j, dup := firstDuplicate(arr); dup {
			errs = append(errs, w.fail(CodeConstraintViolation, "uniqueItems", "unique items",
				fmt.Sprintf("items %d and %d are equal", i, j),
				fmt.Sprintf("array items must be unique: items %d and %d are equal", i, j)))
		}
	}

	for i, item := range arr {
		if i < len(s.PrefixItems) {
			errs = append(errs, w.childIndex(i, item, s.PrefixItems[i])...)
			continue
		}
		if s.Items == nil {
			continue
		}
		if w.rejectsAll(*s.Items) {
			w.path.PushIndex(i)
			errs = append(errs, w.fail(CodeUnexpectedAdditionalItem, "items",
				fmt.Sprintf("at most %d items", len(s.PrefixItems)), describe(item),
				fmt.Sprintf("item %d is not allowed: only %d positional items are declared", i, len(s.PrefixItems))))
			w.path.Pop()
			continue
		}
		errs = append(errs, w.childIndex(i, item, *s.Items)...)
	}
	return errs
}

// rejectsAll reports whether schema is the false schema, inline or behind
// references. A reference that does not resolve is left to node to report.
func (w *walk) rejectsAll(schema parser.SchemaOrRef) bool {
	s := schema.Value
	if schema.Ref != "" {
		resolved, err := parser.DerefWith(w.v.reg, parser.NewResolutionContext(w.refDepth()), schema)
		if err != nil {
			return false
		}
		s = resolved
	}
	return s.IsBoolean() && !*s.Boolean
}

func firstDuplicate(arr []any) (int, int, bool) {
	for i := range arr {
		for j := i + 1; j < len(arr); j++ {
			if equalValues(arr[i], arr[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func (w *walk) object(obj map[string]any, s *parser.Schema) []ValidationError {
	var errs []ValidationError

	for _, name := range s.Required {
		if _, ok := obj[name]; !ok {
			errs = append(errs, w.fail(CodeMissingRequiredProperty, "required", strconv.Quote(name), "absent",
				fmt.Sprintf("required property %q is missing", name)))
		}
	}

	count := len(obj)
	if s.MinProperties != nil && count < *s.MinProperties {
		errs = append(errs, w.fail(CodeConstraintViolation, "minProperties",
			fmt.Sprintf("at least %d properties", *s.MinProperties), strconv.Itoa(count),
			fmt.Sprintf("object has %d properties, minimum is %d", count, *s.MinProperties)))
	}
	if s.MaxProperties != nil && count > *s.MaxProperties {
		errs = append(errs, w.fail(CodeConstraintViolation, "maxProperties",
			fmt.Sprintf("at most %d properties", *s.MaxProperties), strconv.Itoa(count),
			fmt.Sprintf("object has %d properties, maximum is %d", count, *s.MaxProperties)))
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		if sub, ok := s.Properties[name]; ok {
			errs = append(errs, w.child(name, obj[name], sub)...)
			continue
		}
		ap := s.AdditionalProperties
		if ap == nil {
			continue
		}
		if w.rejectsAll(*ap) {
			w.path.Push(name)
			errs = append(errs, w.fail(CodeUnexpectedAdditionalProperty, "additionalProperties",
				"declared properties only", strconv.Quote(name),
				fmt.Sprintf("additional property %q is not allowed", name)))
			w.path.Pop()
			continue
		}
		errs = append(errs, w.child(name, obj[name], *ap)...)
	}
	return errs
}
