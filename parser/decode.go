package parser

import (
	"fmt"
	"maps"
	"slices"

	"github.com/erraggy/oasconform/internal/httputil"
	"github.com/erraggy/oasconform/internal/pathutil"
)

// decoder builds the typed document model from a normalized raw tree,
// collecting load warnings anchored at JSON Pointers into the document.
type decoder struct {
	path     *pathutil.PathBuilder
	warnings []string
}

func newDecoder() *decoder {
	return &decoder{path: &pathutil.PathBuilder{}}
}

func (d *decoder) warnf(format string, args ...any) {
	loc := d.path.String()
	if loc == "" {
		loc = "/"
	}
	d.warnings = append(d.warnings, loc+": "+fmt.Sprintf(format, args...))
}

// at runs fn with seg pushed onto the current location.
func (d *decoder) at(seg string, fn func()) {
	d.path.Push(seg)
	fn()
	d.path.Pop()
}

// sortedEntries iterates a mapping in key order so warnings are deterministic.
func sortedEntries(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func (d *decoder) document(m map[string]any) *Document {
	doc := &Document{
		OpenAPI:           mapGetString(m, "openapi"),
		JSONSchemaDialect: mapGetString(m, "jsonSchemaDialect"),
		Security:          decodeSecurityRequirements(m["security"]),
		Extensions:        extractExtensionsFromMap(m),
	}
	if info := mapGetMap(m, "info"); info != nil {
		doc.Info = decodeInfo(info)
	}
	d.at("servers", func() { doc.Servers = d.servers(m["servers"]) })
	if paths := mapGetMap(m, "paths"); paths != nil {
		d.at("paths", func() { doc.Paths = d.paths(paths) })
	}
	if hooks := mapGetMap(m, "webhooks"); hooks != nil {
		d.at("webhooks", func() { doc.Webhooks = d.paths(hooks) })
	}
	doc.Components = &Components{}
	if comps := mapGetMap(m, "components"); comps != nil {
		d.at("components", func() { doc.Components = d.components(comps) })
	}
	if tags, ok := m["tags"].([]any); ok {
		for _, t := range tags {
			if tm, ok := t.(map[string]any); ok {
				doc.Tags = append(doc.Tags, &Tag{
					Name:         mapGetString(tm, "name"),
					Description:  mapGetString(tm, "description"),
					ExternalDocs: decodeExternalDocs(mapGetMap(tm, "externalDocs")),
				})
			}
		}
	}
	doc.ExternalDocs = decodeExternalDocs(mapGetMap(m, "externalDocs"))
	return doc
}

func decodeInfo(m map[string]any) *Info {
	info := &Info{
		Title:          mapGetString(m, "title"),
		Summary:        mapGetString(m, "summary"),
		Description:    mapGetString(m, "description"),
		TermsOfService: mapGetString(m, "termsOfService"),
		Version:        mapGetString(m, "version"),
		Extensions:     extractExtensionsFromMap(m),
	}
	if c := mapGetMap(m, "contact"); c != nil {
		info.Contact = &Contact{Name: mapGetString(c, "name"), URL: mapGetString(c, "url"), Email: mapGetString(c, "email")}
	}
	if l := mapGetMap(m, "license"); l != nil {
		info.License = &License{Name: mapGetString(l, "name"), Identifier: mapGetString(l, "identifier"), URL: mapGetString(l, "url")}
	}
	return info
}

func decodeExternalDocs(m map[string]any) *ExternalDocs {
	if m == nil {
		return nil
	}
	return &ExternalDocs{Description: mapGetString(m, "description"), URL: mapGetString(m, "url")}
}

func (d *decoder) servers(v any) []*Server {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]*Server, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, decodeServer(m))
		}
	}
	return out
}

func decodeServer(m map[string]any) *Server {
	s := &Server{
		URL:         mapGetString(m, "url"),
		Description: mapGetString(m, "description"),
		Extensions:  extractExtensionsFromMap(m),
	}
	if vars := mapGetMap(m, "variables"); vars != nil {
		s.Variables = make(map[string]*ServerVariable, len(vars))
		for name, raw := range vars {
			vm, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			s.Variables[name] = &ServerVariable{
				Enum:        mapGetStringSlice(vm, "enum"),
				Default:     mapGetString(vm, "default"),
				Description: mapGetString(vm, "description"),
			}
		}
	}
	return s
}

func (d *decoder) paths(m map[string]any) Paths {
	out := make(Paths, len(m))
	for _, p := range sortedEntries(m) {
		if isExtensionKey(p) {
			continue
		}
		pm, ok := m[p].(map[string]any)
		if !ok {
			continue
		}
		d.at(p, func() { out[p] = d.pathItem(pm) })
	}
	return out
}

func (d *decoder) pathItem(m map[string]any) *PathItem {
	item := &PathItem{
		Summary:     mapGetString(m, "summary"),
		Description: mapGetString(m, "description"),
		Extensions:  extractExtensionsFromMap(m),
	}
	if ref := mapGetString(m, "$ref"); ref != "" {
		d.warnf("path item references are not followed: %s", ref)
	}
	d.at("servers", func() { item.Servers = d.servers(m["servers"]) })
	d.at("parameters", func() { item.Parameters = d.parameterList(m["parameters"]) })
	for _, method := range methodOrder {
		om, ok := m[method].(map[string]any)
		if !ok {
			continue
		}
		d.at(method, func() { item.setOperation(method, d.operation(om)) })
	}
	return item
}

func (d *decoder) operation(m map[string]any) *Operation {
	op := &Operation{
		Tags:         mapGetStringSlice(m, "tags"),
		Summary:      mapGetString(m, "summary"),
		Description:  mapGetString(m, "description"),
		ExternalDocs: decodeExternalDocs(mapGetMap(m, "externalDocs")),
		OperationID:  mapGetString(m, "operationId"),
		Deprecated:   mapGetBool(m, "deprecated"),
		Security:     decodeSecurityRequirements(m["security"]),
		Extensions:   extractExtensionsFromMap(m),
	}
	d.at("parameters", func() { op.Parameters = d.parameterList(m["parameters"]) })
	if rb, ok := m["requestBody"]; ok {
		d.at("requestBody", func() {
			if v, ok := decodeOrRef(d, rb, d.requestBody); ok {
				op.RequestBody = &v
			}
		})
	}
	if rm := mapGetMap(m, "responses"); rm != nil {
		d.at("responses", func() { op.Responses = d.responses(rm) })
	}
	if cm := mapGetMap(m, "callbacks"); cm != nil {
		d.at("callbacks", func() { op.Callbacks = decodeOrRefMap(d, cm, d.callback) })
	}
	d.at("servers", func() { op.Servers = d.servers(m["servers"]) })
	return op
}

func (d *decoder) parameterList(v any) []ParameterOrRef {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]ParameterOrRef, 0, len(arr))
	for i, item := range arr {
		d.at(fmt.Sprint(i), func() {
			if p, ok := decodeOrRef(d, item, d.parameter); ok {
				out = append(out, p)
			}
		})
	}
	return out
}

func (d *decoder) parameter(m map[string]any) *Parameter {
	p := &Parameter{
		Name:            mapGetString(m, "name"),
		In:              mapGetString(m, "in"),
		Description:     mapGetString(m, "description"),
		Required:        mapGetBool(m, "required"),
		Deprecated:      mapGetBool(m, "deprecated"),
		AllowEmptyValue: mapGetBool(m, "allowEmptyValue"),
		Style:           mapGetString(m, "style"),
		Explode:         mapGetBoolPtr(m, "explode"),
		Extensions:      extractExtensionsFromMap(m),
	}
	switch p.In {
	case ParamInQuery, ParamInHeader, ParamInCookie:
	case ParamInPath:
		if !p.Required {
			d.warnf("path parameter %q must be required", p.Name)
		}
	default:
		d.warnf("parameter %q has unknown location %q", p.Name, p.In)
	}
	p.Example, p.HasExample = m["example"]
	d.at("schema", func() { p.Schema = d.optionalSchema(m, "schema") })
	if em := mapGetMap(m, "examples"); em != nil {
		d.at("examples", func() { p.Examples = decodeOrRefMap(d, em, d.example) })
	}
	if cm := mapGetMap(m, "content"); cm != nil {
		d.at("content", func() { p.Content = d.content(cm) })
	}
	return p
}

func (d *decoder) requestBody(m map[string]any) *RequestBody {
	rb := &RequestBody{
		Description: mapGetString(m, "description"),
		Required:    mapGetBool(m, "required"),
		Extensions:  extractExtensionsFromMap(m),
	}
	if cm := mapGetMap(m, "content"); cm != nil {
		d.at("content", func() { rb.Content = d.content(cm) })
	}
	return rb
}

func (d *decoder) content(m map[string]any) map[string]*MediaType {
	out := make(map[string]*MediaType, len(m))
	for _, name := range sortedEntries(m) {
		mm, ok := m[name].(map[string]any)
		if !ok {
			continue
		}
		if !httputil.IsValidMediaType(name) {
			d.warnf("invalid media type %q", name)
		}
		d.at(name, func() { out[name] = d.mediaType(mm) })
	}
	return out
}

func (d *decoder) mediaType(m map[string]any) *MediaType {
	mt := &MediaType{Extensions: extractExtensionsFromMap(m)}
	mt.Example, mt.HasExample = m["example"]
	d.at("schema", func() { mt.Schema = d.optionalSchema(m, "schema") })
	if em := mapGetMap(m, "examples"); em != nil {
		d.at("examples", func() { mt.Examples = decodeOrRefMap(d, em, d.example) })
	}
	return mt
}

func (d *decoder) responses(m map[string]any) *Responses {
	r := &Responses{Extensions: extractExtensionsFromMap(m)}
	for _, code := range sortedEntries(m) {
		if isExtensionKey(code) {
			continue
		}
		raw := m[code]
		d.at(code, func() {
			resp, ok := decodeOrRef(d, raw, d.response)
			if !ok {
				return
			}
			if code == "default" {
				r.Default = &resp
				return
			}
			if !httputil.ValidateStatusCode(code) {
				d.warnf("malformed status code %q", code)
				return
			}
			if r.Codes == nil {
				r.Codes = make(map[string]ResponseOrRef)
			}
			r.Codes[code] = resp
		})
	}
	return r
}

func (d *decoder) response(m map[string]any) *Response {
	r := &Response{
		Description: mapGetString(m, "description"),
		Extensions:  extractExtensionsFromMap(m),
	}
	if hm := mapGetMap(m, "headers"); hm != nil {
		d.at("headers", func() { r.Headers = decodeOrRefMap(d, hm, d.header) })
	}
	if cm := mapGetMap(m, "content"); cm != nil {
		d.at("content", func() { r.Content = d.content(cm) })
	}
	if lm := mapGetMap(m, "links"); lm != nil {
		d.at("links", func() { r.Links = decodeOrRefMap(d, lm, d.link) })
	}
	return r
}

func (d *decoder) header(m map[string]any) *Header {
	h := &Header{
		Description: mapGetString(m, "description"),
		Required:    mapGetBool(m, "required"),
		Deprecated:  mapGetBool(m, "deprecated"),
		Style:       mapGetString(m, "style"),
		Explode:     mapGetBoolPtr(m, "explode"),
		Extensions:  extractExtensionsFromMap(m),
	}
	h.Example, h.HasExample = m["example"]
	d.at("schema", func() { h.Schema = d.optionalSchema(m, "schema") })
	if em := mapGetMap(m, "examples"); em != nil {
		d.at("examples", func() { h.Examples = decodeOrRefMap(d, em, d.example) })
	}
	if cm := mapGetMap(m, "content"); cm != nil {
		d.at("content", func() { h.Content = d.content(cm) })
	}
	return h
}

func (d *decoder) example(m map[string]any) *Example {
	e := &Example{
		Summary:       mapGetString(m, "summary"),
		Description:   mapGetString(m, "description"),
		ExternalValue: mapGetString(m, "externalValue"),
		Extensions:    extractExtensionsFromMap(m),
	}
	e.Value, e.HasValue = m["value"]
	if e.HasValue && e.ExternalValue != "" {
		d.warnf("example declares both value and externalValue")
	}
	return e
}

func (d *decoder) link(m map[string]any) *Link {
	l := &Link{
		OperationRef: mapGetString(m, "operationRef"),
		OperationID:  mapGetString(m, "operationId"),
		Parameters:   mapGetMap(m, "parameters"),
		RequestBody:  m["requestBody"],
		Description:  mapGetString(m, "description"),
		Extensions:   extractExtensionsFromMap(m),
	}
	if sm := mapGetMap(m, "server"); sm != nil {
		l.Server = decodeServer(sm)
	}
	return l
}

func (d *decoder) callback(m map[string]any) *Callback {
	cb := make(Callback, len(m))
	for _, expr := range sortedEntries(m) {
		pm, ok := m[expr].(map[string]any)
		if !ok || isExtensionKey(expr) {
			continue
		}
		d.at(expr, func() { cb[expr] = d.pathItem(pm) })
	}
	return &cb
}

func (d *decoder) securityScheme(m map[string]any) *SecurityScheme {
	s := &SecurityScheme{
		Type:             mapGetString(m, "type"),
		Description:      mapGetString(m, "description"),
		Name:             mapGetString(m, "name"),
		In:               mapGetString(m, "in"),
		Scheme:           mapGetString(m, "scheme"),
		BearerFormat:     mapGetString(m, "bearerFormat"),
		OpenIDConnectURL: mapGetString(m, "openIdConnectUrl"),
		Extensions:       extractExtensionsFromMap(m),
	}
	if fm := mapGetMap(m, "flows"); fm != nil {
		s.Flows = &OAuthFlows{
			Implicit:          decodeOAuthFlow(mapGetMap(fm, "implicit")),
			Password:          decodeOAuthFlow(mapGetMap(fm, "password")),
			ClientCredentials: decodeOAuthFlow(mapGetMap(fm, "clientCredentials")),
			AuthorizationCode: decodeOAuthFlow(mapGetMap(fm, "authorizationCode")),
		}
	}
	return s
}

func decodeOAuthFlow(m map[string]any) *OAuthFlow {
	if m == nil {
		return nil
	}
	return &OAuthFlow{
		AuthorizationURL: mapGetString(m, "authorizationUrl"),
		TokenURL:         mapGetString(m, "tokenUrl"),
		RefreshURL:       mapGetString(m, "refreshUrl"),
		Scopes:           mapGetStringMap(m, "scopes"),
	}
}

func (d *decoder) components(m map[string]any) *Components {
	c := &Components{Extensions: extractExtensionsFromMap(m)}
	if sm := mapGetMap(m, "schemas"); sm != nil {
		d.at("schemas", func() {
			c.Schemas = make(map[string]SchemaOrRef, len(sm))
			for _, name := range sortedEntries(sm) {
				d.at(name, func() {
					if s, ok := d.schemaOrRef(sm[name]); ok {
						c.Schemas[name] = s
					}
				})
			}
		})
	}
	if pm := mapGetMap(m, "parameters"); pm != nil {
		d.at("parameters", func() { c.Parameters = decodeOrRefMap(d, pm, d.parameter) })
	}
	if rm := mapGetMap(m, "responses"); rm != nil {
		d.at("responses", func() { c.Responses = decodeOrRefMap(d, rm, d.response) })
	}
	if rm := mapGetMap(m, "requestBodies"); rm != nil {
		d.at("requestBodies", func() { c.RequestBodies = decodeOrRefMap(d, rm, d.requestBody) })
	}
	if hm := mapGetMap(m, "headers"); hm != nil {
		d.at("headers", func() { c.Headers = decodeOrRefMap(d, hm, d.header) })
	}
	if sm := mapGetMap(m, "securitySchemes"); sm != nil {
		d.at("securitySchemes", func() { c.SecuritySchemes = decodeOrRefMap(d, sm, d.securityScheme) })
	}
	if em := mapGetMap(m, "examples"); em != nil {
		d.at("examples", func() { c.Examples = decodeOrRefMap(d, em, d.example) })
	}
	if lm := mapGetMap(m, "links"); lm != nil {
		d.at("links", func() { c.Links = decodeOrRefMap(d, lm, d.link) })
	}
	if cm := mapGetMap(m, "callbacks"); cm != nil {
		d.at("callbacks", func() { c.Callbacks = decodeOrRefMap(d, cm, d.callback) })
	}
	return c
}

// decodeOrRef decodes either a {$ref: ...} mapping or an inline object.
func decodeOrRef[T any](d *decoder, v any, build func(map[string]any) *T) (ObjectOrRef[T], bool) {
	m, ok := v.(map[string]any)
	if !ok {
		d.warnf("expected an object, got %T", v)
		return ObjectOrRef[T]{}, false
	}
	if ref, ok := m["$ref"].(string); ok {
		return RefTo[T](ref), true
	}
	return Inline(build(m)), true
}

func decodeOrRefMap[T any](d *decoder, m map[string]any, build func(map[string]any) *T) map[string]ObjectOrRef[T] {
	out := make(map[string]ObjectOrRef[T], len(m))
	for _, name := range sortedEntries(m) {
		if isExtensionKey(name) {
			continue
		}
		d.at(name, func() {
			if v, ok := decodeOrRef(d, m[name], build); ok {
				out[name] = v
			}
		})
	}
	return out
}

// ----------------------------------------------------------------------------
// Schemas
// ----------------------------------------------------------------------------

// refAnnotations are keywords that may sit next to $ref without changing
// what the reference accepts.
var refAnnotations = map[string]bool{
	"$ref":        true,
	"summary":     true,
	"description": true,
	"title":       true,
	"$comment":    true,
}

func (d *decoder) optionalSchema(m map[string]any, key string) *SchemaOrRef {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	s, ok := d.schemaOrRef(raw)
	if !ok {
		return nil
	}
	return &s
}

func (d *decoder) schemaOrRef(v any) (SchemaOrRef, bool) {
	switch val := v.(type) {
	case bool:
		return Inline(BoolSchema(val)), true
	case map[string]any:
		ref, hasRef := val["$ref"].(string)
		if !hasRef {
			return Inline(d.schema(val)), true
		}
		for k := range val {
			if !refAnnotations[k] && !isExtensionKey(k) {
				s := d.schema(val)
				s.AllOf = append([]SchemaOrRef{RefTo[Schema](ref)}, s.AllOf...)
				return Inline(s), true
			}
		}
		return RefTo[Schema](ref), true
	}
	d.warnf("schema must be an object or a boolean, got %T", v)
	return SchemaOrRef{}, false
}

func (d *decoder) schemaList(m map[string]any, key string) []SchemaOrRef {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var out []SchemaOrRef
	d.at(key, func() {
		out = make([]SchemaOrRef, 0, len(arr))
		for i, item := range arr {
			d.at(fmt.Sprint(i), func() {
				s, ok := d.schemaOrRef(item)
				if !ok {
					s = Inline(invalidSchema(fmt.Sprintf("schema must be an object or a boolean, got %T", item)))
				}
				out = append(out, s)
			})
		}
	})
	return out
}

func (d *decoder) schema(m map[string]any) *Schema {
	s := &Schema{
		Required:    mapGetStringSlice(m, "required"),
		MinLength:   mapGetIntPtr(m, "minLength"),
		MaxLength:   mapGetIntPtr(m, "maxLength"),
		Pattern:     mapGetString(m, "pattern"),
		MinItems:    mapGetIntPtr(m, "minItems"),
		MaxItems:    mapGetIntPtr(m, "maxItems"),
		UniqueItems: mapGetBool(m, "uniqueItems"),
		Title:       mapGetString(m, "title"),
		Description: mapGetString(m, "description"),
		Format:      mapGetString(m, "format"),
		Default:     m["default"],
		Example:     m["example"],
		ReadOnly:    mapGetBool(m, "readOnly"),
		WriteOnly:   mapGetBool(m, "writeOnly"),
		Deprecated:  mapGetBool(m, "deprecated"),
		Nullable:    mapGetBool(m, "nullable"),
		Extensions:  extractExtensionsFromMap(m),

		MinProperties: mapGetIntPtr(m, "minProperties"),
		MaxProperties: mapGetIntPtr(m, "maxProperties"),
	}

	switch t := m["type"].(type) {
	case string:
		s.Type = []string{t}
	case []any:
		s.Type = mapGetStringSlice(m, "type")
	case nil:
	default:
		d.at("type", func() { d.warnf("type must be a string or an array, got %T", t) })
	}

	if e, ok := m["enum"]; ok {
		arr, isArr := e.([]any)
		if !isArr {
			d.at("enum", func() { d.warnf("enum must be an array") })
		}
		s.Enum, s.HasEnum = arr, isArr
	}
	s.Const, s.HasConst = m["const"]
	if ex, ok := m["examples"].([]any); ok {
		s.Examples = ex
	}
	if disc := mapGetMap(m, "discriminator"); disc != nil {
		d.at("discriminator", func() { s.Discriminator = d.discriminator(disc) })
	}

	s.AllOf = d.schemaList(m, "allOf")
	s.AnyOf = d.schemaList(m, "anyOf")
	s.OneOf = d.schemaList(m, "oneOf")
	d.at("not", func() { s.Not = d.optionalSchema(m, "not") })

	d.numericKeywords(s, m)

	if err := s.compilePattern(); err != nil {
		d.at("pattern", func() { d.warnf("invalid pattern %q: %v", s.Pattern, err) })
	}

	s.PrefixItems = d.schemaList(m, "prefixItems")
	if items, ok := m["items"]; ok {
		if _, tuple := items.([]any); tuple {
			// Draft 4 tuple form: items is the prefix and additionalItems the rest.
			if s.PrefixItems == nil {
				s.PrefixItems = d.schemaList(m, "items")
			}
			d.at("additionalItems", func() { s.Items = d.optionalSchema(m, "additionalItems") })
		} else {
			d.at("items", func() { s.Items = d.optionalSchema(m, "items") })
		}
	}

	if props := mapGetMap(m, "properties"); props != nil {
		d.at("properties", func() {
			s.Properties = make(map[string]SchemaOrRef, len(props))
			for _, name := range sortedEntries(props) {
				d.at(name, func() {
					if ps, ok := d.schemaOrRef(props[name]); ok {
						s.Properties[name] = ps
					}
				})
			}
		})
	}
	d.at("additionalProperties", func() { s.AdditionalProperties = d.optionalSchema(m, "additionalProperties") })

	return s
}

func (d *decoder) discriminator(m map[string]any) *Discriminator {
	disc := &Discriminator{
		PropertyName: mapGetString(m, "propertyName"),
		Mapping:      mapGetStringMap(m, "mapping"),
		Extensions:   extractExtensionsFromMap(m),
	}
	if disc.PropertyName == "" {
		d.warnf("discriminator requires propertyName")
	}
	return disc
}

// numericKeywords decodes the numeric bounds, normalizing the OpenAPI 3.0
// boolean exclusiveMinimum/exclusiveMaximum into their 3.1 numeric form.
func (d *decoder) numericKeywords(s *Schema, m map[string]any) {
	s.Minimum = mapGetFloat64Ptr(m, "minimum")
	s.Maximum = mapGetFloat64Ptr(m, "maximum")

	switch ex := m["exclusiveMinimum"].(type) {
	case bool:
		if ex && s.Minimum != nil {
			s.ExclusiveMinimum, s.Minimum = s.Minimum, nil
		}
	default:
		s.ExclusiveMinimum = mapGetFloat64Ptr(m, "exclusiveMinimum")
	}
	switch ex := m["exclusiveMaximum"].(type) {
	case bool:
		if ex && s.Maximum != nil {
			s.ExclusiveMaximum, s.Maximum = s.Maximum, nil
		}
	default:
		s.ExclusiveMaximum = mapGetFloat64Ptr(m, "exclusiveMaximum")
	}

	if mo := mapGetFloat64Ptr(m, "multipleOf"); mo != nil {
		if *mo <= 0 {
			d.at("multipleOf", func() { d.warnf("multipleOf must be greater than 0, got %v", *mo) })
		} else {
			s.MultipleOf = mo
		}
	}
}
