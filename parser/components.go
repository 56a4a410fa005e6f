package parser

import (
	"maps"
	"slices"
)

// Kind names a component collection under #/components.
type Kind string

const (
	KindSchemas         Kind = "schemas"
	KindParameters      Kind = "parameters"
	KindResponses       Kind = "responses"
	KindRequestBodies   Kind = "requestBodies"
	KindHeaders         Kind = "headers"
	KindSecuritySchemes Kind = "securitySchemes"
	KindExamples        Kind = "examples"
	KindLinks           Kind = "links"
	KindCallbacks       Kind = "callbacks"
)

var allKinds = []Kind{
	KindSchemas,
	KindParameters,
	KindResponses,
	KindRequestBodies,
	KindHeaders,
	KindSecuritySchemes,
	KindExamples,
	KindLinks,
	KindCallbacks,
}

// Kinds returns every component kind in declaration order.
func Kinds() []Kind {
	return slices.Clone(allKinds)
}

// ParseKind converts a component collection name into a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	if slices.Contains(allKinds, k) {
		return k, true
	}
	return "", false
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// ObjectOrRef holds either an inline value or a reference to a component.
// Exactly one of Ref and Value is set on a loaded document.
//
// A schema that carries a $ref next to other keywords is loaded as an
// inline schema whose allOf starts with the reference, so the invariant
// holds for schemas too.
type ObjectOrRef[T any] struct {
	// Ref is the "#/components/<kind>/<name>" pointer, if this is a reference
	Ref string
	// Value is the inline value, if this is not a reference
	Value *T
}

// IsRef reports whether o is a reference.
func (o ObjectOrRef[T]) IsRef() bool {
	return o.Ref != ""
}

// Inline wraps v as an inline ObjectOrRef.
func Inline[T any](v *T) ObjectOrRef[T] {
	return ObjectOrRef[T]{Value: v}
}

// RefTo builds a reference ObjectOrRef.
func RefTo[T any](ref string) ObjectOrRef[T] {
	return ObjectOrRef[T]{Ref: ref}
}

type (
	SchemaOrRef         = ObjectOrRef[Schema]
	ParameterOrRef      = ObjectOrRef[Parameter]
	ResponseOrRef       = ObjectOrRef[Response]
	RequestBodyOrRef    = ObjectOrRef[RequestBody]
	HeaderOrRef         = ObjectOrRef[Header]
	SecuritySchemeOrRef = ObjectOrRef[SecurityScheme]
	ExampleOrRef        = ObjectOrRef[Example]
	LinkOrRef           = ObjectOrRef[Link]
	CallbackOrRef       = ObjectOrRef[Callback]
)

// Components is the component registry of a document: one named collection
// per Kind. It is built once at load time and must not be modified afterwards;
// resolved references point directly into its storage.
type Components struct {
	Schemas         map[string]SchemaOrRef
	Parameters      map[string]ParameterOrRef
	Responses       map[string]ResponseOrRef
	RequestBodies   map[string]RequestBodyOrRef
	Headers         map[string]HeaderOrRef
	SecuritySchemes map[string]SecuritySchemeOrRef
	Examples        map[string]ExampleOrRef
	Links           map[string]LinkOrRef
	Callbacks       map[string]CallbackOrRef
	Extensions      map[string]any

	// maxRefDepth bounds reference chains followed by Resolve (0 = default)
	maxRefDepth int
}

// Lookup returns the registry entry named name under kind. The entry is an
// ObjectOrRef of the kind's value type, e.g. SchemaOrRef for KindSchemas.
func (c *Components) Lookup(kind Kind, name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	switch kind {
	case KindSchemas:
		return lookupIn(c.Schemas, name)
	case KindParameters:
		return lookupIn(c.Parameters, name)
	case KindResponses:
		return lookupIn(c.Responses, name)
	case KindRequestBodies:
		return lookupIn(c.RequestBodies, name)
	case KindHeaders:
		return lookupIn(c.Headers, name)
	case KindSecuritySchemes:
		return lookupIn(c.SecuritySchemes, name)
	case KindExamples:
		return lookupIn(c.Examples, name)
	case KindLinks:
		return lookupIn(c.Links, name)
	case KindCallbacks:
		return lookupIn(c.Callbacks, name)
	}
	return nil, false
}

func lookupIn[T any](m map[string]ObjectOrRef[T], name string) (any, bool) {
	entry, ok := m[name]
	if !ok {
		return nil, false
	}
	return entry, true
}

// Names returns the sorted component names declared under kind.
func (c *Components) Names(kind Kind) []string {
	if c == nil {
		return nil
	}
	switch kind {
	case KindSchemas:
		return sortedKeys(c.Schemas)
	case KindParameters:
		return sortedKeys(c.Parameters)
	case KindResponses:
		return sortedKeys(c.Responses)
	case KindRequestBodies:
		return sortedKeys(c.RequestBodies)
	case KindHeaders:
		return sortedKeys(c.Headers)
	case KindSecuritySchemes:
		return sortedKeys(c.SecuritySchemes)
	case KindExamples:
		return sortedKeys(c.Examples)
	case KindLinks:
		return sortedKeys(c.Links)
	case KindCallbacks:
		return sortedKeys(c.Callbacks)
	}
	return nil
}

// Count returns the total number of components across all kinds.
func (c *Components) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Schemas) + len(c.Parameters) + len(c.Responses) +
		len(c.RequestBodies) + len(c.Headers) + len(c.SecuritySchemes) +
		len(c.Examples) + len(c.Links) + len(c.Callbacks)
}

// MaxRefDepth returns the reference chain bound used by Resolve.
func (c *Components) MaxRefDepth() int {
	if c == nil || c.maxRefDepth <= 0 {
		return DefaultMaxRefDepth
	}
	return c.maxRefDepth
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(m))
}
