package validator

import (
	"fmt"
	"strings"
)

// Code classifies a validation failure.
type Code string

const (
	// CodeTypeMismatch means the value's JSON type is not allowed by "type".
	CodeTypeMismatch Code = "TypeMismatch"
	// CodeEnumMismatch means the value equals no "enum" element, or differs from "const".
	CodeEnumMismatch Code = "EnumMismatch"
	// CodeNoBranchMatched means no anyOf/oneOf branch accepted the value.
	CodeNoBranchMatched Code = "NoBranchMatched"
	// CodeAmbiguousMatch means more than one oneOf branch accepted the value.
	CodeAmbiguousMatch Code = "AmbiguousMatch"
	// CodeNegatedSchemaMatched means the "not" sub-schema accepted the value.
	CodeNegatedSchemaMatched Code = "NegatedSchemaMatched"
	// CodeMissingRequiredProperty means a "required" key is absent.
	CodeMissingRequiredProperty Code = "MissingRequiredProperty"
	// CodeUnexpectedAdditionalProperty means a key is forbidden by additionalProperties: false.
	CodeUnexpectedAdditionalProperty Code = "UnexpectedAdditionalProperty"
	// CodeUnexpectedAdditionalItem means an element past prefixItems is forbidden by items: false.
	CodeUnexpectedAdditionalItem Code = "UnexpectedAdditionalItem"
	// CodeRejectedByFalseSchema means the schema is the boolean schema false.
	CodeRejectedByFalseSchema Code = "RejectedByFalseSchema"
	// CodeConstraintViolation covers range, length, count, pattern, multipleOf,
	// uniqueItems and format keywords.
	CodeConstraintViolation Code = "ConstraintViolation"
	// CodeReferenceFailure means a $ref could not be resolved at this location.
	CodeReferenceFailure Code = "ReferenceFailure"
	// CodeDepthExceeded means the schema nesting bound was reached.
	CodeDepthExceeded Code = "DepthExceeded"
	// CodeInvalidSchema means the schema itself is unusable, e.g. an
	// uncompilable pattern.
	CodeInvalidSchema Code = "InvalidSchema"
	// CodeInvalidBody means a payload could not be decoded before validation.
	CodeInvalidBody Code = "InvalidBody"
)

// ValidationError is one failed check. Validation failures are data: they are
// returned in a slice and never as a Go error.
type ValidationError struct {
	// Location is the JSON Pointer of the failing value ("" is the root)
	Location string `json:"location" yaml:"location"`
	// Keyword is the schema keyword that failed, e.g. "maximum" or "$ref"
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	// Code classifies the failure
	Code Code `json:"code" yaml:"code"`
	// Expected describes what the keyword requires
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	// Actual describes what the value provided
	Actual string `json:"actual,omitempty" yaml:"actual,omitempty"`
	// Message is a human-readable description
	Message string `json:"message" yaml:"message"`
	// Causes holds branch failures for anyOf/oneOf aggregates
	Causes []ValidationError `json:"causes,omitempty" yaml:"causes,omitempty"`
	// Err is the underlying error for ReferenceFailure, DepthExceeded and
	// InvalidSchema failures
	Err error `json:"-" yaml:"-"`
}

// Error implements the error interface so a ValidationError can be logged or
// wrapped, although validation never returns one as a Go error.
func (e ValidationError) Error() string {
	loc := e.Location
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e ValidationError) Unwrap() error {
	return e.Err
}

// String renders the error and its causes as an indented tree.
func (e ValidationError) String() string {
	var b strings.Builder
	e.write(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (e ValidationError) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(b, "[%s] %s\n", e.Code, e.Error())
	for _, c := range e.Causes {
		c.write(b, depth+1)
	}
}

// Flatten returns errs with every aggregate's causes listed after it,
// depth first.
func Flatten(errs []ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		causes := e.Causes
		e.Causes = nil
		out = append(out, e)
		out = append(out, Flatten(causes)...)
	}
	return out
}

// HasCode reports whether any error in errs, or any of their causes, has code c.
func HasCode(errs []ValidationError, c Code) bool {
	for _, e := range errs {
		if e.Code == c || HasCode(e.Causes, c) {
			return true
		}
	}
	return false
}
