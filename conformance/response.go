package conformance

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/erraggy/oasconform/internal/httputil"
	"github.com/erraggy/oasconform/parser"
	"github.com/erraggy/oasconform/validator"
)

// responseFor selects the declared response for status: exact code, then
// the NXX range, then default.
func (c *Checker) responseFor(op *parser.Operation, status int) (string, *parser.ResponseOrRef, bool) {
	if op.Responses == nil {
		return "", nil, false
	}
	key, ok := httputil.MatchStatus(op.Responses.StatusCodes(), status)
	if !ok {
		return "", nil, false
	}
	if key == httputil.DefaultStatusKey {
		return key, op.Responses.Default, true
	}
	r := op.Responses.Codes[key]
	return key, &r, true
}

// statusExpected reports whether the matched key satisfies the case.
func statusExpected(expect []string, key string) bool {
	return len(expect) == 0 || slices.ContainsFunc(expect, func(e string) bool {
		return strings.EqualFold(e, key)
	})
}

// checkBody validates a response body against the schema of the media type
// matching contentType. Only JSON bodies are decoded and validated.
func (c *Checker) checkBody(resp *parser.Response, contentType string, body []byte) []validator.ValidationError {
	if len(resp.Content) == 0 {
		return nil
	}
	declared := sortedKeys(resp.Content)
	if contentType == "" {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		return []validator.ValidationError{invalidBody("response has a body but no Content-Type")}
	}
	key, ok := httputil.MatchMediaType(declared, contentType)
	if !ok {
		return []validator.ValidationError{invalidBody(
			fmt.Sprintf("content type %q is not declared (declared: %s)", contentType, strings.Join(declared, ", ")))}
	}
	mt := resp.Content[key]
	if mt == nil || mt.Schema == nil || !httputil.IsJSONMediaType(contentType) {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []validator.ValidationError{invalidBody("response body is empty but a JSON schema is declared")}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		e := invalidBody(fmt.Sprintf("response body is not valid JSON: %v", err))
		e.Err = err
		return []validator.ValidationError{e}
	}
	return c.validator.Validate(value, *mt.Schema)
}

func invalidBody(msg string) validator.ValidationError {
	return validator.ValidationError{Code: validator.CodeInvalidBody, Message: msg}
}

// checkHeaders validates the declared response headers. Errors are located
// at the header name.
func (c *Checker) checkHeaders(resp *parser.Response, headers http.Header) []validator.ValidationError {
	var errs []validator.ValidationError
	for _, name := range sortedKeys(resp.Headers) {
		if strings.EqualFold(name, "Content-Type") {
			continue
		}
		location := "/" + name
		h, err := parser.Deref(c.doc.Components, resp.Headers[name])
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Location: location,
				Keyword:  "$ref",
				Code:     validator.CodeReferenceFailure,
				Message:  err.Error(),
				Err:      err,
			})
			continue
		}

		values := headers.Values(name)
		if len(values) == 0 {
			if h.Required {
				errs = append(errs, validator.ValidationError{
					Location: location,
					Keyword:  "required",
					Code:     validator.CodeMissingRequiredProperty,
					Expected: "present",
					Actual:   "absent",
					Message:  fmt.Sprintf("required response header %q is missing", name),
				})
			}
			continue
		}
		if h.Schema == nil {
			continue
		}

		schema, err := parser.Deref(c.doc.Components, *h.Schema)
		if err != nil {
			schema = nil
		}
		value := coerceHeader(strings.Join(values, ","), schema)
		for _, e := range c.validator.Validate(value, *h.Schema) {
			e.Location = location + e.Location
			errs = append(errs, e)
		}
	}
	return errs
}

// coerceHeader converts a simple-style header value to the type its schema
// declares. Values that do not parse stay strings so the validator reports
// the mismatch.
func coerceHeader(raw string, schema *parser.Schema) any {
	switch schemaType(schema) {
	case parser.TypeArray:
		var items *parser.Schema
		if schema.Items != nil {
			items = schema.Items.Value
		}
		parts := strings.Split(raw, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = coerceScalar(strings.TrimSpace(p), items)
		}
		return out
	case parser.TypeObject:
		parts := strings.Split(raw, ",")
		out := make(map[string]any, len(parts)/2)
		for i := 0; i+1 < len(parts); i += 2 {
			var prop *parser.Schema
			if p, ok := schema.Properties[parts[i]]; ok {
				prop = p.Value
			}
			out[parts[i]] = coerceScalar(parts[i+1], prop)
		}
		return out
	}
	return coerceScalar(strings.TrimSpace(raw), schema)
}

func coerceScalar(value string, schema *parser.Schema) any {
	switch schemaType(schema) {
	case parser.TypeInteger:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	case parser.TypeNumber:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case parser.TypeBoolean:
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}

// schemaType returns the first non-null type of schema.
func schemaType(schema *parser.Schema) string {
	if schema == nil {
		return ""
	}
	for _, t := range schema.Type {
		if t != parser.TypeNull {
			return t
		}
	}
	return ""
}
