// Package oaserrors provides structured error types for the oasconform library.
//
// Import path: github.com/erraggy/oasconform/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON parsing failures and structural issues
//   - [ReferenceError]: $ref resolution failures, classified by [ReferenceKind]
//   - [ResourceLimitError]: Resource exhaustion (depth, size limits)
//   - [ConfigError]: Invalid configuration or input options
//   - [TransportError]: Network failures while exercising a live API
//
// Schema validation failures are not Go errors: the validator package returns
// them as data. Only a resolution failure met mid-validation carries a
// [ReferenceError] inside the reported validation error.
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrMalformedReference]: Matches [ReferenceError] with Kind=RefMalformed
//   - [ErrUnresolvedReference]: Matches [ReferenceError] with Kind=RefUnresolved
//   - [ErrKindMismatch]: Matches [ReferenceError] with Kind=RefKindMismatch
//   - [ErrCircularReference]: Matches [ReferenceError] with Kind=RefCircular
//   - [ErrResourceLimit]: Matches any [ResourceLimitError] and depth-exceeded [ReferenceError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrTransport]: Matches any [TransportError]
//
// # Usage Examples
//
// Check for specific conditions:
//
//	if errors.Is(err, oaserrors.ErrCircularReference) {
//	    // A $ref chain loops back on itself
//	}
//	if errors.Is(err, oaserrors.ErrTransport) {
//	    // The API is unreachable, as opposed to non-conforming
//	}
//
// Extract error details with errors.As():
//
//	var refErr *oaserrors.ReferenceError
//	if errors.As(err, &refErr) {
//	    fmt.Printf("Failed to resolve ref: %s (%s)\n", refErr.Ref, refErr.Kind)
//	}
package oaserrors
