package parser

import (
	"fmt"

	"github.com/erraggy/oasconform/internal/pathutil"
)

// RefSite is one $ref occurrence in a document.
type RefSite struct {
	// Location is the JSON Pointer of the object holding the $ref
	Location string
	// Ref is the reference string
	Ref string
	// Kind is the component kind the location requires
	Kind Kind
}

// References lists every $ref of the document in a deterministic order,
// together with the component kind each location expects.
func (d *Document) References() []RefSite {
	if d == nil {
		return nil
	}
	w := &refWalker{path: &pathutil.PathBuilder{}}
	w.at("paths", func() {
		for _, p := range sortedKeys(d.Paths) {
			w.at(p, func() { w.pathItem(d.Paths[p]) })
		}
	})
	w.at("webhooks", func() {
		for _, name := range sortedKeys(d.Webhooks) {
			w.at(name, func() { w.pathItem(d.Webhooks[name]) })
		}
	})
	if c := d.Components; c != nil {
		w.at("components", func() { w.components(c) })
	}
	return w.sites
}

// checkReferences resolves every reference of doc and describes the failures.
func checkReferences(doc *Document) []string {
	var warnings []string
	for _, site := range doc.References() {
		if _, err := doc.Components.Resolve(site.Ref, site.Kind); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", site.Location, err))
		}
	}
	return warnings
}

type refWalker struct {
	path  *pathutil.PathBuilder
	sites []RefSite
}

func (w *refWalker) at(seg string, fn func()) {
	w.path.Push(seg)
	fn()
	w.path.Pop()
}

func (w *refWalker) record(ref string, kind Kind) {
	w.sites = append(w.sites, RefSite{Location: w.path.String(), Ref: ref, Kind: kind})
}

// visit records o when it is a reference and otherwise walks its value.
func visit[T any](w *refWalker, o ObjectOrRef[T], walk func(*T)) {
	if o.Ref != "" {
		w.record(o.Ref, kindOf[T]())
		return
	}
	if o.Value != nil && walk != nil {
		walk(o.Value)
	}
}

func visitMap[T any](w *refWalker, key string, m map[string]ObjectOrRef[T], walk func(*T)) {
	if len(m) == 0 {
		return
	}
	w.at(key, func() {
		for _, name := range sortedKeys(m) {
			w.at(name, func() { visit(w, m[name], walk) })
		}
	})
}

func (w *refWalker) pathItem(item *PathItem) {
	if item == nil {
		return
	}
	w.parameters(item.Parameters)
	for _, m := range methodOrder {
		if op := item.Operation(m); op != nil {
			w.at(m, func() { w.operation(op) })
		}
	}
}

func (w *refWalker) parameters(list []ParameterOrRef) {
	if len(list) == 0 {
		return
	}
	w.at("parameters", func() {
		for i, p := range list {
			w.at(fmt.Sprint(i), func() { visit(w, p, w.parameter) })
		}
	})
}

func (w *refWalker) operation(op *Operation) {
	w.parameters(op.Parameters)
	if op.RequestBody != nil {
		w.at("requestBody", func() { visit(w, *op.RequestBody, w.requestBody) })
	}
	if op.Responses != nil {
		w.at("responses", func() {
			for _, code := range op.Responses.StatusCodes() {
				w.at(code, func() {
					if code == "default" {
						visit(w, *op.Responses.Default, w.response)
						return
					}
					visit(w, op.Responses.Codes[code], w.response)
				})
			}
		})
	}
	visitMap(w, "callbacks", op.Callbacks, w.callback)
}

func (w *refWalker) callback(cb *Callback) {
	for _, expr := range sortedKeys(*cb) {
		w.at(expr, func() { w.pathItem((*cb)[expr]) })
	}
}

func (w *refWalker) parameter(p *Parameter) {
	w.optionalSchema(p.Schema)
	visitMap(w, "examples", p.Examples, nil)
	w.content(p.Content)
}

func (w *refWalker) requestBody(rb *RequestBody) {
	w.content(rb.Content)
}

func (w *refWalker) response(r *Response) {
	visitMap(w, "headers", r.Headers, w.header)
	w.content(r.Content)
	visitMap(w, "links", r.Links, nil)
}

func (w *refWalker) header(h *Header) {
	w.optionalSchema(h.Schema)
	visitMap(w, "examples", h.Examples, nil)
	w.content(h.Content)
}

func (w *refWalker) content(content map[string]*MediaType) {
	if len(content) == 0 {
		return
	}
	w.at("content", func() {
		for _, name := range sortedKeys(content) {
			mt := content[name]
			if mt == nil {
				continue
			}
			w.at(name, func() {
				w.optionalSchema(mt.Schema)
				visitMap(w, "examples", mt.Examples, nil)
			})
		}
	})
}

func (w *refWalker) optionalSchema(s *SchemaOrRef) {
	if s != nil {
		w.at("schema", func() { visit(w, *s, w.schema) })
	}
}

func (w *refWalker) schemaList(key string, list []SchemaOrRef) {
	if len(list) == 0 {
		return
	}
	w.at(key, func() {
		for i, sub := range list {
			w.at(fmt.Sprint(i), func() { visit(w, sub, w.schema) })
		}
	})
}

func (w *refWalker) schemaAt(key string, s *SchemaOrRef) {
	if s != nil {
		w.at(key, func() { visit(w, *s, w.schema) })
	}
}

func (w *refWalker) schema(s *Schema) {
	if s.IsBoolean() {
		return
	}
	w.schemaList("allOf", s.AllOf)
	w.schemaList("anyOf", s.AnyOf)
	w.schemaList("oneOf", s.OneOf)
	w.schemaAt("not", s.Not)
	w.schemaList("prefixItems", s.PrefixItems)
	w.schemaAt("items", s.Items)
	visitMap(w, "properties", s.Properties, w.schema)
	w.schemaAt("additionalProperties", s.AdditionalProperties)
}

func (w *refWalker) components(c *Components) {
	visitMap(w, "schemas", c.Schemas, w.schema)
	visitMap(w, "parameters", c.Parameters, w.parameter)
	visitMap(w, "responses", c.Responses, w.response)
	visitMap(w, "requestBodies", c.RequestBodies, w.requestBody)
	visitMap(w, "headers", c.Headers, w.header)
	visitMap(w, "securitySchemes", c.SecuritySchemes, nil)
	visitMap(w, "examples", c.Examples, nil)
	visitMap(w, "links", c.Links, nil)
	visitMap(w, "callbacks", c.Callbacks, w.callback)
}
