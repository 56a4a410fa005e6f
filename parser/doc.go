// Package parser loads OpenAPI 3.1 documents into an immutable model.
//
// A loaded [Document] owns a [Components] registry: one named collection per
// component [Kind]. Wherever the format allows either an inline object or a
// shared definition, the model uses [ObjectOrRef], which holds either a
// reference string or an inline value.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//		fmt.Println("warning:", w)
//	}
//	for _, op := range result.Document.Operations() {
//		fmt.Println(op.Method, op.Path)
//	}
//
// YAML input is decoded with go.yaml.in/yaml/v4. JSON input takes a faster
// path through github.com/goccy/go-json. Documents declaring openapi 3.0.x are
// accepted with a warning and read with 3.1 semantics: nullable is honored and
// boolean exclusiveMinimum/exclusiveMaximum are converted to the numeric form.
//
// # References
//
// References have the form "#/components/<kind>/<name>", where name is a
// single JSON Pointer token ("~1" for '/', "~0" for '~'). They are always
// resolved against the registry root:
//
//	schema, err := result.Document.Components.ResolveSchema("#/components/schemas/Pet")
//
// The resolver follows chains of references, tracking the pointers it has
// visited in a per-call [ResolutionContext]. A repeated pointer fails with a
// circular reference error and a chain longer than [DefaultMaxRefDepth]
// fails with a depth error; neither recurses without bound. Every failure is
// an *oaserrors.ReferenceError:
//
//	_, err := comps.Resolve(ref, parser.KindSchemas)
//	switch {
//	case errors.Is(err, oaserrors.ErrMalformedReference):
//	case errors.Is(err, oaserrors.ErrUnresolvedReference):
//	case errors.Is(err, oaserrors.ErrKindMismatch):
//	case errors.Is(err, oaserrors.ErrCircularReference):
//	}
//
// Resolution returns a pointer into the registry; nothing is copied.
//
// # Schemas
//
// [Schema] is a tagged variant: a boolean schema when Boolean is set, an
// object schema otherwise. A schema carrying $ref next to other keywords is
// loaded as an inline schema whose allOf starts with the reference. Patterns
// are compiled once at load; an invalid pattern is reported in
// ParseResult.Warnings.
//
// # Immutability
//
// There is no mutation API. All accessors are read-only, so any number of
// goroutines may resolve and validate against one document concurrently.
package parser
