package validator

import (
	"sort"

	"github.com/erraggy/oasconform/internal/pathutil"
	"github.com/erraggy/oasconform/parser"
)

// ExampleResult is the outcome of validating one declared example.
type ExampleResult struct {
	// Location is the JSON Pointer of the example within the document
	Location string
	// Errors lists the failures; empty when the example is valid
	Errors []ValidationError
}

// Valid reports whether the example passed.
func (r ExampleResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateExamples validates every example declared on parameters, headers
// and media types of doc against the schema it illustrates. Objects shared
// through components are checked once, at their component location.
// Examples given only as externalValue are not fetched and are skipped.
func (v *Validator) ValidateExamples(doc *parser.Document) []ExampleResult {
	if doc == nil {
		return nil
	}
	path := pathutil.Get()
	defer pathutil.Put(path)
	ev := &exampleWalker{v: v, doc: doc, path: path}
	ev.at("paths", func() {
		for _, p := range sortedNames(doc.Paths) {
			ev.at(p, func() { ev.pathItem(doc.Paths[p]) })
		}
	})
	ev.at("webhooks", func() {
		for _, name := range sortedNames(doc.Webhooks) {
			ev.at(name, func() { ev.pathItem(doc.Webhooks[name]) })
		}
	})
	if c := doc.Components; c != nil {
		ev.at("components", func() { ev.components(c) })
	}
	v.cfg.logger.Debug("validated examples", "count", len(ev.results))
	return ev.results
}

type exampleWalker struct {
	v       *Validator
	doc     *parser.Document
	path    *pathutil.PathBuilder
	results []ExampleResult
}

func (ev *exampleWalker) at(seg string, fn func()) {
	ev.path.Push(seg)
	fn()
	ev.path.Pop()
}

func (ev *exampleWalker) check(value any, schema *parser.SchemaOrRef) {
	ev.results = append(ev.results, ExampleResult{
		Location: ev.path.String(),
		Errors:   ev.v.Validate(value, *schema),
	})
}

func (ev *exampleWalker) pathItem(item *parser.PathItem) {
	if item == nil {
		return
	}
	ev.parameters(item.Parameters)
	for _, m := range parser.Methods() {
		if op := item.Operation(m); op != nil {
			ev.at(m, func() { ev.operation(op) })
		}
	}
}

func (ev *exampleWalker) operation(op *parser.Operation) {
	ev.parameters(op.Parameters)
	if rb := op.RequestBody; rb != nil && rb.Value != nil {
		ev.at("requestBody", func() { ev.content(rb.Value.Content) })
	}
	if op.Responses != nil {
		ev.at("responses", func() { ev.responses(op.Responses) })
	}

	if len(op.Callbacks) == 0 {
		return
	}
	ev.at("callbacks", func() {
		for _, name := range sortedNames(op.Callbacks) {
			cb := op.Callbacks[name].Value
			if cb == nil {
				continue
			}
			ev.at(name, func() {
				for _, expr := range sortedNames(*cb) {
					ev.at(expr, func() { ev.pathItem((*cb)[expr]) })
				}
			})
		}
	})
}

func (ev *exampleWalker) responses(rs *parser.Responses) {
	for _, code := range rs.StatusCodes() {
		r := rs.Default
		if code != "default" {
			resp := rs.Codes[code]
			r = &resp
		}
		if r != nil && r.Value != nil {
			ev.at(code, func() { ev.response(r.Value) })
		}
	}
}

func (ev *exampleWalker) parameters(list []parser.ParameterOrRef) {
	if len(list) == 0 {
		return
	}
	ev.at("parameters", func() {
		for i, p := range list {
			if p.Value == nil {
				continue
			}
			ev.path.PushIndex(i)
			ev.parameter(p.Value)
			ev.path.Pop()
		}
	})
}

func (ev *exampleWalker) parameter(p *parser.Parameter) {
	ev.exampleSet(p.Schema, p.Example, p.HasExample, p.Examples)
	ev.content(p.Content)
}

func (ev *exampleWalker) header(h *parser.Header) {
	ev.exampleSet(h.Schema, h.Example, h.HasExample, h.Examples)
	ev.content(h.Content)
}

func (ev *exampleWalker) response(r *parser.Response) {
	if len(r.Headers) > 0 {
		ev.at("headers", func() {
			for _, name := range sortedNames(r.Headers) {
				if h := r.Headers[name]; h.Value != nil {
					ev.at(name, func() { ev.header(h.Value) })
				}
			}
		})
	}
	ev.content(r.Content)
}

func (ev *exampleWalker) content(content map[string]*parser.MediaType) {
	if len(content) == 0 {
		return
	}
	ev.at("content", func() {
		for _, name := range sortedNames(content) {
			if mt := content[name]; mt != nil {
				ev.at(name, func() { ev.exampleSet(mt.Schema, mt.Example, mt.HasExample, mt.Examples) })
			}
		}
	})
}

// exampleSet validates the single example and the named examples that
// illustrate schema.
func (ev *exampleWalker) exampleSet(schema *parser.SchemaOrRef, example any, hasExample bool, examples map[string]parser.ExampleOrRef) {
	if schema == nil {
		return
	}
	if hasExample {
		ev.at("example", func() { ev.check(example, schema) })
	}
	if len(examples) == 0 {
		return
	}
	ev.at("examples", func() {
		for _, name := range sortedNames(examples) {
			ev.at(name, func() { ev.named(examples[name], schema) })
		}
	})
}

func (ev *exampleWalker) named(ex parser.ExampleOrRef, schema *parser.SchemaOrRef) {
	resolved, err := parser.Deref(ev.doc.Components, ex)
	if err != nil {
		ev.results = append(ev.results, ExampleResult{
			Location: ev.path.String(),
			Errors: []ValidationError{{
				Keyword: "$ref",
				Code:    CodeReferenceFailure,
				Message: err.Error(),
				Err:     err,
			}},
		})
		return
	}
	if !resolved.HasValue {
		ev.v.cfg.logger.Debug("skipping example without an inline value", "location", ev.path.String())
		return
	}
	ev.at("value", func() { ev.check(resolved.Value, schema) })
}

func (ev *exampleWalker) components(c *parser.Components) {
	walk := func(kind parser.Kind, fn func(name string)) {
		names := c.Names(kind)
		if len(names) == 0 {
			return
		}
		ev.at(string(kind), func() {
			for _, name := range names {
				ev.at(name, func() { fn(name) })
			}
		})
	}
	walk(parser.KindParameters, func(name string) {
		if p := c.Parameters[name]; p.Value != nil {
			ev.parameter(p.Value)
		}
	})
	walk(parser.KindRequestBodies, func(name string) {
		if rb := c.RequestBodies[name]; rb.Value != nil {
			ev.content(rb.Value.Content)
		}
	})
	walk(parser.KindResponses, func(name string) {
		if r := c.Responses[name]; r.Value != nil {
			ev.response(r.Value)
		}
	})
	walk(parser.KindHeaders, func(name string) {
		if h := c.Headers[name]; h.Value != nil {
			ev.header(h.Value)
		}
	})
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
