// Package oaserrors provides structured error types for oasconform.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: YAML/JSON parsing failures and structural issues
//   - ReferenceError: $ref resolution failures (malformed, unresolved, kind mismatch, circular, too deep)
//   - ResourceLimitError: Resource exhaustion (depth, size, count limits)
//   - ConfigError: Invalid configuration or input options
//   - TransportError: Network failures while exercising a live API
//
// # Usage with errors.As
//
//	_, err := registry.Resolve("#/components/schemas/Pet", parser.KindSchemas)
//	if err != nil {
//	    var refErr *oaserrors.ReferenceError
//	    if errors.As(err, &refErr) && refErr.Kind == oaserrors.RefCircular {
//	        // Handle circular reference specifically
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrMalformedReference indicates a $ref that does not follow the
	// "#/components/<kind>/<name>" grammar.
	ErrMalformedReference = errors.New("malformed reference")

	// ErrUnresolvedReference indicates a $ref whose target does not exist.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrKindMismatch indicates a $ref pointing at a component of the wrong kind.
	ErrKindMismatch = errors.New("reference kind mismatch")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrTransport indicates a network-level failure talking to a live API.
	ErrTransport = errors.New("transport error")
)

// ParseError represents a failure to parse an OpenAPI document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceKind classifies why a reference failed to resolve.
type ReferenceKind int

const (
	// RefUnresolved means the pointer is well-formed but names nothing.
	RefUnresolved ReferenceKind = iota
	// RefMalformed means the pointer does not match "#/components/<kind>/<name>".
	RefMalformed
	// RefKindMismatch means the pointer names a component of another kind.
	RefKindMismatch
	// RefCircular means following the pointer revisited a pointer in the same chain.
	RefCircular
	// RefDepthExceeded means the chain is longer than the configured bound.
	RefDepthExceeded
)

// String returns the taxonomy name of the reference failure.
func (k ReferenceKind) String() string {
	switch k {
	case RefUnresolved:
		return "UnresolvedReference"
	case RefMalformed:
		return "MalformedReference"
	case RefKindMismatch:
		return "KindMismatch"
	case RefCircular:
		return "CyclicReference"
	case RefDepthExceeded:
		return "ReferenceDepthExceeded"
	default:
		return "unknown"
	}
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Kind classifies the failure
	Kind ReferenceKind
	// Expected is the component kind the caller asked for (e.g. "schemas")
	Expected string
	// Actual is the component kind named by the pointer, when it differs
	Actual string
	// Chain lists the pointers followed before the failure, in order
	Chain []string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	var msg string
	switch e.Kind {
	case RefMalformed:
		msg = "malformed reference"
	case RefKindMismatch:
		msg = "reference kind mismatch"
	case RefCircular:
		msg = "circular reference"
	case RefDepthExceeded:
		msg = "reference chain too deep"
	default:
		msg = "unresolved reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Kind == RefKindMismatch && e.Expected != "" {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.Actual)
	}
	if len(e.Chain) > 0 {
		msg += " [chain: " + strings.Join(e.Chain, " -> ") + "]"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also the sentinel for the specific Kind.
// A depth-exceeded reference error also matches ErrResourceLimit.
func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrMalformedReference:
		return e.Kind == RefMalformed
	case ErrUnresolvedReference:
		return e.Kind == RefUnresolved
	case ErrKindMismatch:
		return e.Kind == RefKindMismatch
	case ErrCircularReference:
		return e.Kind == RefCircular
	case ErrResourceLimit:
		return e.Kind == RefDepthExceeded
	}
	return false
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when parsing or validation exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "schema_depth", "body_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// TransportError represents a failure to exchange a request with a live API:
// connection errors, timeouts, cancellation, or an unreadable response body.
type TransportError struct {
	// Method is the HTTP method of the failed request
	Method string
	// URL is the request URL
	URL string
	// Timeout is true when the failure was a deadline expiry
	Timeout bool
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *TransportError) Error() string {
	msg := "transport error"
	if e.Timeout {
		msg = "transport timeout"
	}
	if e.Method != "" || e.URL != "" {
		msg += fmt.Sprintf(" (%s %s)", e.Method, e.URL)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
