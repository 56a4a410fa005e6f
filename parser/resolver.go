package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oasconform/internal/pathutil"
	"github.com/erraggy/oasconform/oaserrors"
)

// DefaultMaxRefDepth is the default maximum length of a reference chain.
const DefaultMaxRefDepth = 100

// ParseRef splits a "#/components/<kind>/<name>" pointer into its kind and
// JSON-Pointer-unescaped name.
func ParseRef(ref string) (Kind, string, error) {
	rest, ok := strings.CutPrefix(ref, pathutil.RefPrefixComponents)
	if !ok {
		msg := "reference must start with " + pathutil.RefPrefixComponents
		if i := strings.IndexByte(ref, '#'); i > 0 {
			msg = "external references are not supported"
		}
		return "", "", malformed(ref, msg)
	}
	kindName, escaped, ok := strings.Cut(rest, "/")
	if !ok || escaped == "" {
		return "", "", malformed(ref, "missing component name")
	}
	kind, ok := ParseKind(kindName)
	if !ok {
		return "", "", malformed(ref, fmt.Sprintf("unknown component kind %q", kindName))
	}
	if strings.Contains(escaped, "/") {
		return "", "", malformed(ref, "component name must be a single pointer token")
	}
	name, err := pathutil.UnescapePointerToken(escaped)
	if err != nil {
		return "", "", &oaserrors.ReferenceError{Ref: ref, Kind: oaserrors.RefMalformed, Cause: err}
	}
	return kind, name, nil
}

// FormatRef builds the reference pointer for a component.
func FormatRef(kind Kind, name string) string {
	return pathutil.ComponentRef(string(kind), name)
}

func malformed(ref, msg string) error {
	return &oaserrors.ReferenceError{Ref: ref, Kind: oaserrors.RefMalformed, Message: msg}
}

// ResolutionContext tracks the pointers followed while resolving one
// reference chain. It must not be shared between concurrent resolutions.
type ResolutionContext struct {
	maxDepth int
	visited  map[string]struct{}
	chain    []string
}

// NewResolutionContext creates a context bounding chains to maxDepth pointers.
// A maxDepth <= 0 selects DefaultMaxRefDepth.
func NewResolutionContext(maxDepth int) *ResolutionContext {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRefDepth
	}
	return &ResolutionContext{maxDepth: maxDepth, visited: make(map[string]struct{})}
}

// Chain returns the pointers followed so far, in order.
func (rc *ResolutionContext) Chain() []string {
	return slices.Clone(rc.chain)
}

// Reset clears the visited set so the context can resolve another chain.
func (rc *ResolutionContext) Reset() {
	clear(rc.visited)
	rc.chain = rc.chain[:0]
}

func (rc *ResolutionContext) enter(ref string) error {
	if _, seen := rc.visited[ref]; seen {
		return &oaserrors.ReferenceError{
			Ref:   ref,
			Kind:  oaserrors.RefCircular,
			Chain: append(rc.Chain(), ref),
		}
	}
	if len(rc.chain) >= rc.maxDepth {
		return &oaserrors.ReferenceError{
			Ref:   ref,
			Kind:  oaserrors.RefDepthExceeded,
			Chain: rc.Chain(),
			Cause: &oaserrors.ResourceLimitError{
				ResourceType: "ref_depth",
				Limit:        int64(rc.maxDepth),
				Actual:       int64(len(rc.chain) + 1),
			},
		}
	}
	rc.visited[ref] = struct{}{}
	rc.chain = append(rc.chain, ref)
	return nil
}

// Resolve follows ref to a component of the expected kind and returns a
// pointer into the registry (e.g. *Schema for KindSchemas). Chains of
// references are followed until an inline value is reached.
//
// All failures are *oaserrors.ReferenceError values.
func (c *Components) Resolve(ref string, expected Kind) (any, error) {
	return c.ResolveWith(nil, ref, expected)
}

// ResolveWith is Resolve with a caller-supplied context. A nil ctx uses a
// fresh context bounded by the registry's maximum reference depth.
func (c *Components) ResolveWith(ctx *ResolutionContext, ref string, expected Kind) (any, error) {
	switch expected {
	case KindSchemas:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]SchemaOrRef { return c.Schemas }))
	case KindParameters:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]ParameterOrRef { return c.Parameters }))
	case KindResponses:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]ResponseOrRef { return c.Responses }))
	case KindRequestBodies:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]RequestBodyOrRef { return c.RequestBodies }))
	case KindHeaders:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]HeaderOrRef { return c.Headers }))
	case KindSecuritySchemes:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]SecuritySchemeOrRef { return c.SecuritySchemes }))
	case KindExamples:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]ExampleOrRef { return c.Examples }))
	case KindLinks:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]LinkOrRef { return c.Links }))
	case KindCallbacks:
		return boxed(resolveObject(c, ctx, ref, expected, func(c *Components) map[string]CallbackOrRef { return c.Callbacks }))
	}
	return nil, &oaserrors.ReferenceError{
		Ref:     ref,
		Kind:    oaserrors.RefMalformed,
		Message: fmt.Sprintf("unknown expected kind %q", expected),
	}
}

func boxed[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func resolveObject[T any](c *Components, ctx *ResolutionContext, ref string, expected Kind, collection func(*Components) map[string]ObjectOrRef[T]) (*T, error) {
	if ctx == nil {
		ctx = NewResolutionContext(c.MaxRefDepth())
	}
	for {
		kind, name, err := ParseRef(ref)
		if err != nil {
			return nil, withChain(err, ctx)
		}
		if err := ctx.enter(ref); err != nil {
			return nil, err
		}
		if _, ok := c.Lookup(kind, name); !ok {
			return nil, &oaserrors.ReferenceError{
				Ref:   ref,
				Kind:  oaserrors.RefUnresolved,
				Chain: chainIfFollowed(ctx),
			}
		}
		if kind != expected {
			return nil, &oaserrors.ReferenceError{
				Ref:      ref,
				Kind:     oaserrors.RefKindMismatch,
				Expected: string(expected),
				Actual:   string(kind),
				Chain:    chainIfFollowed(ctx),
			}
		}
		entry := collection(c)[name]
		if entry.Value != nil {
			return entry.Value, nil
		}
		if entry.Ref == "" {
			return nil, &oaserrors.ReferenceError{
				Ref:     ref,
				Kind:    oaserrors.RefUnresolved,
				Message: "component has no value",
			}
		}
		ref = entry.Ref
	}
}

// chainIfFollowed reports the chain only when more than one pointer was followed.
func chainIfFollowed(ctx *ResolutionContext) []string {
	if len(ctx.chain) < 2 {
		return nil
	}
	return ctx.Chain()
}

func withChain(err error, ctx *ResolutionContext) error {
	if refErr, ok := err.(*oaserrors.ReferenceError); ok && len(ctx.chain) > 0 {
		refErr.Chain = append(ctx.Chain(), refErr.Ref)
	}
	return err
}

// Deref returns the inline value of o, or resolves its reference against c.
func Deref[T any](c *Components, o ObjectOrRef[T]) (*T, error) {
	return DerefWith(c, nil, o)
}

// DerefWith is Deref with a caller-supplied resolution context.
func DerefWith[T any](c *Components, ctx *ResolutionContext, o ObjectOrRef[T]) (*T, error) {
	if o.Ref == "" {
		if o.Value == nil {
			return nil, &oaserrors.ReferenceError{Kind: oaserrors.RefUnresolved, Message: "empty object or reference"}
		}
		return o.Value, nil
	}
	kind := kindOf[T]()
	v, err := c.ResolveWith(ctx, o.Ref, kind)
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func kindOf[T any]() Kind {
	switch any((*T)(nil)).(type) {
	case *Schema:
		return KindSchemas
	case *Parameter:
		return KindParameters
	case *Response:
		return KindResponses
	case *RequestBody:
		return KindRequestBodies
	case *Header:
		return KindHeaders
	case *SecurityScheme:
		return KindSecuritySchemes
	case *Example:
		return KindExamples
	case *Link:
		return KindLinks
	case *Callback:
		return KindCallbacks
	}
	return ""
}

// ResolveSchema resolves ref to a schema.
func (c *Components) ResolveSchema(ref string) (*Schema, error) {
	return Deref(c, RefTo[Schema](ref))
}

// ResolveParameter resolves ref to a parameter.
func (c *Components) ResolveParameter(ref string) (*Parameter, error) {
	return Deref(c, RefTo[Parameter](ref))
}

// ResolveResponse resolves ref to a response.
func (c *Components) ResolveResponse(ref string) (*Response, error) {
	return Deref(c, RefTo[Response](ref))
}

// ResolveRequestBody resolves ref to a request body.
func (c *Components) ResolveRequestBody(ref string) (*RequestBody, error) {
	return Deref(c, RefTo[RequestBody](ref))
}

// ResolveHeader resolves ref to a header.
func (c *Components) ResolveHeader(ref string) (*Header, error) {
	return Deref(c, RefTo[Header](ref))
}

// ResolveExample resolves ref to an example.
func (c *Components) ResolveExample(ref string) (*Example, error) {
	return Deref(c, RefTo[Example](ref))
}

// ResolveSecurityScheme resolves ref to a security scheme.
func (c *Components) ResolveSecurityScheme(ref string) (*SecurityScheme, error) {
	return Deref(c, RefTo[SecurityScheme](ref))
}

// ResolveLink resolves ref to a link.
func (c *Components) ResolveLink(ref string) (*Link, error) {
	return Deref(c, RefTo[Link](ref))
}

// ResolveCallback resolves ref to a callback.
func (c *Components) ResolveCallback(ref string) (*Callback, error) {
	return Deref(c, RefTo[Callback](ref))
}
