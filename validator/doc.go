// Package validator checks JSON-compatible values against OpenAPI 3.1
// schemas.
//
// # Quick Start
//
//	result, _ := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	v, _ := validator.New(result.Document.Components)
//	for _, e := range v.ValidateComponent(value, "Pet") {
//	    fmt.Println(e)
//	}
//
// Values use the generic model produced by JSON and YAML decoding: nil, bool,
// any Go number type (or a json.Number), string, []any and map[string]any.
//
// # Errors
//
// Validate reports every failure it finds rather than stopping at the first.
// Each ValidationError carries the JSON Pointer of the offending value, the
// keyword that rejected it and a stable Code. Failures of anyOf and oneOf
// branches are attached as Causes of the composite error; use Flatten to
// walk them.
//
// A type mismatch stops evaluation of the remaining keywords of that schema,
// so a string given for an object reports one error instead of one per
// property.
//
// # References
//
// Each $ref is resolved against the registry passed to New with a fresh
// chain, so reference failures are reported as CodeReferenceFailure with the
// resolver error in Err. Recursive schemas are followed as long as each
// expansion moves to a deeper value; a reference that re-enters itself at
// the same location is reported instead of looping.
//
// # Formats
//
// format is an annotation unless WithFormatAssertions is set. When set, the
// formats date, date-time, email, uuid, uri, ipv4 and ipv6 are checked.
package validator
