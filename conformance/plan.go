package conformance

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/erraggy/oasconform/internal/httputil"
	"github.com/erraggy/oasconform/internal/pathutil"
	"github.com/erraggy/oasconform/parser"
)

// DefaultExampleID names the single case planned for an operation that
// declares no examples.
const DefaultExampleID = "default"

// Param is a parameter value serialised for the wire.
type Param struct {
	Name  string `json:"name" yaml:"name"`
	In    string `json:"in" yaml:"in"`
	Value string `json:"value" yaml:"value"`
}

// Case is one planned request: an operation exercised with one example.
type Case struct {
	OperationID string
	Method      string
	Path        string
	// ExampleID is "request/<media>/<name>", "response/<status>/<media>/<name>"
	// or "default"
	ExampleID string
	Params    []Param
	MediaType string
	Body      []byte
	HasBody   bool
	// ExpectStatus lists the declared status keys that count as a match.
	// Empty means any declared status.
	ExpectStatus []string
	// SkipReason is set when no request can be built for the case.
	SkipReason string
}

// ID returns "<operation>#<example>".
func (c Case) ID() string {
	return c.OperationID + "#" + c.ExampleID
}

// Plan lists the cases of every operation of doc, in operation order and
// then request examples before response examples.
func Plan(doc *parser.Document) ([]Case, error) {
	if doc == nil {
		return nil, errors.New("conformance: nil document")
	}
	var cases []Case
	for _, e := range doc.Operations() {
		cases = append(cases, planOperation(doc, e)...)
	}
	return cases, nil
}

type plannedBody struct {
	exampleID string
	mediaType string
	body      []byte
	skip      string
}

func planOperation(doc *parser.Document, e parser.OperationEntry) []Case {
	base := Case{
		OperationID: e.ID(),
		Method:      strings.ToUpper(e.Method),
		Path:        e.Path,
	}

	params, err := doc.Parameters(e)
	if err == nil {
		base.Params, err = planParams(doc.Components, params)
	}
	if err == nil {
		err = checkTemplate(e.Path, base.Params)
	}
	if err != nil {
		base.ExampleID = DefaultExampleID
		base.SkipReason = err.Error()
		return []Case{base}
	}

	declared := e.Operation.Responses.StatusCodes()
	success := successKeys(declared)

	var cases []Case
	requests := planRequestBodies(doc.Components, e.Operation)
	for _, rb := range requests {
		c := base
		c.ExampleID = rb.exampleID
		c.ExpectStatus = success
		c.setBody(rb)
		cases = append(cases, c)
	}

	for _, status := range declared {
		for _, ex := range planResponseExamples(doc.Components, e.Operation.Responses, status) {
			c := base
			c.ExampleID = ex
			c.ExpectStatus = []string{status}
			if len(requests) > 0 {
				c.setBody(requests[0])
			}
			cases = append(cases, c)
		}
	}

	if len(cases) == 0 {
		c := base
		c.ExampleID = DefaultExampleID
		c.ExpectStatus = success
		if rb := e.Operation.RequestBody; rb != nil {
			if body, err := parser.Deref(doc.Components, *rb); err == nil && body.Required {
				c.SkipReason = "request body is required but declares no example"
			}
		}
		cases = append(cases, c)
	}
	return cases
}

func (c *Case) setBody(rb plannedBody) {
	if rb.skip != "" {
		if c.SkipReason == "" {
			c.SkipReason = rb.skip
		}
		return
	}
	c.MediaType = rb.mediaType
	c.Body = rb.body
	c.HasBody = true
}

// successKeys returns the 2xx keys of declared, or nil to accept any
// declared status.
func successKeys(declared []string) []string {
	var out []string
	for _, k := range declared {
		if httputil.IsSuccessKey(k) {
			out = append(out, k)
		}
	}
	return out
}

// planParams picks a wire value for every parameter. A required parameter
// without any value makes the whole operation unbuildable.
func planParams(reg *parser.Components, params []*parser.Parameter) ([]Param, error) {
	var out []Param
	for _, p := range params {
		v, ok := paramValue(reg, p)
		if !ok {
			if p.Required || p.In == parser.ParamInPath {
				return nil, fmt.Errorf("no example value for required %s parameter %q", p.In, p.Name)
			}
			continue
		}
		out = append(out, Param{Name: p.Name, In: p.In, Value: serializeSimple(v)})
	}
	return out, nil
}

// checkTemplate reports a path template variable that no path parameter
// fills.
func checkTemplate(path string, params []Param) error {
	have := make(map[string]bool, len(params))
	for _, p := range params {
		if p.In == parser.ParamInPath {
			have[p.Name] = true
		}
	}
	for _, name := range pathutil.TemplateParams(path) {
		if !have[name] {
			return fmt.Errorf("path template variable %q has no declared path parameter", name)
		}
	}
	return nil
}

// paramValue finds a value for p: its example, its first named example,
// then the default, example, first examples entry or first enum value of
// its schema.
func paramValue(reg *parser.Components, p *parser.Parameter) (any, bool) {
	if p.HasExample {
		return p.Example, true
	}
	for _, name := range sortedKeys(p.Examples) {
		ex, err := parser.Deref(reg, p.Examples[name])
		if err == nil && ex.HasValue {
			return ex.Value, true
		}
	}
	if p.Schema == nil {
		return nil, false
	}
	s, err := parser.Deref(reg, *p.Schema)
	if err != nil || s.IsBoolean() {
		return nil, false
	}
	switch {
	case s.Default != nil:
		return s.Default, true
	case s.Example != nil:
		return s.Example, true
	case len(s.Examples) > 0:
		return s.Examples[0], true
	case s.HasEnum && len(s.Enum) > 0:
		return s.Enum[0], true
	}
	return nil, false
}

// serializeSimple renders v in the simple style: arrays as comma separated
// items and objects as comma separated key,value pairs.
func serializeSimple(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = serializeSimple(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		var parts []string
		for _, k := range sortedKeys(val) {
			parts = append(parts, k, serializeSimple(val[k]))
		}
		return strings.Join(parts, ",")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func planRequestBodies(reg *parser.Components, op *parser.Operation) []plannedBody {
	if op.RequestBody == nil {
		return nil
	}
	rb, err := parser.Deref(reg, *op.RequestBody)
	if err != nil {
		return []plannedBody{{exampleID: "request", skip: err.Error()}}
	}
	var out []plannedBody
	for _, media := range sortedKeys(rb.Content) {
		mt := rb.Content[media]
		if mt == nil {
			continue
		}
		prefix := "request/" + media + "/"
		if mt.HasExample {
			out = append(out, encodeBody(prefix+"example", media, mt.Example))
		}
		for _, name := range sortedKeys(mt.Examples) {
			id := prefix + name
			ex, err := parser.Deref(reg, mt.Examples[name])
			switch {
			case err != nil:
				out = append(out, plannedBody{exampleID: id, skip: err.Error()})
			case !ex.HasValue:
				out = append(out, plannedBody{exampleID: id, skip: "external example values are not fetched"})
			default:
				out = append(out, encodeBody(id, media, ex.Value))
			}
		}
	}
	return out
}

// encodeBody serialises an example value for media. JSON media types are
// marshalled; other media types accept string examples verbatim.
func encodeBody(id, media string, value any) plannedBody {
	pb := plannedBody{exampleID: id, mediaType: media}
	if httputil.IsJSONMediaType(media) {
		data, err := json.Marshal(value)
		if err != nil {
			pb.skip = fmt.Sprintf("cannot encode example as %s: %v", media, err)
			return pb
		}
		pb.body = data
		return pb
	}
	s, ok := value.(string)
	if !ok {
		pb.skip = fmt.Sprintf("cannot encode a non-string example as %s", media)
		return pb
	}
	pb.body = []byte(s)
	return pb
}

// planResponseExamples returns the example IDs declared on the response
// for status.
func planResponseExamples(reg *parser.Components, rs *parser.Responses, status string) []string {
	ref := rs.Default
	if status != httputil.DefaultStatusKey {
		r := rs.Codes[status]
		ref = &r
	}
	resp, err := parser.Deref(reg, *ref)
	if err != nil {
		return nil
	}
	var ids []string
	for _, media := range sortedKeys(resp.Content) {
		mt := resp.Content[media]
		if mt == nil {
			continue
		}
		prefix := "response/" + status + "/" + media + "/"
		if mt.HasExample {
			ids = append(ids, prefix+"example")
		}
		for _, name := range sortedKeys(mt.Examples) {
			ids = append(ids, prefix+name)
		}
	}
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
