package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasconform/parser"
)

func loadDoc(t *testing.T, name string) *parser.Document {
	t.Helper()
	result, err := parser.ParseWithOptions(parser.WithFilePath("testdata/" + name))
	require.NoError(t, err)
	return result.Document
}

func parseDoc(t *testing.T, src string) *parser.Document {
	t.Helper()
	result, err := parser.ParseWithOptions(parser.WithBytes([]byte(src)))
	require.NoError(t, err)
	return result.Document
}

func TestPlan_Petstore(t *testing.T) {
	cases, err := Plan(loadDoc(t, "petstore.yaml"))
	require.NoError(t, err)

	ids := make([]string, len(cases))
	for i, c := range cases {
		ids[i] = c.ID()
	}
	assert.Equal(t, []string{
		"listPets#response/200/application/json/example",
		"createPet#request/application/json/rex",
		"createPet#response/201/application/json/rex",
		"showPetById#response/200/application/json/rex",
		"deletePet#default",
	}, ids)

	list := cases[0]
	assert.Equal(t, "GET", list.Method)
	assert.Equal(t, "/pets", list.Path)
	assert.Equal(t, []Param{{Name: "limit", In: "query", Value: "10"}}, list.Params)
	assert.Equal(t, []string{"200"}, list.ExpectStatus)
	assert.False(t, list.HasBody)

	create := cases[1]
	assert.True(t, create.HasBody)
	assert.Equal(t, "application/json", create.MediaType)
	assert.JSONEq(t, `{"name": "Rex", "tag": "dog"}`, string(create.Body))
	assert.Equal(t, []string{"201"}, create.ExpectStatus)

	createResponse := cases[2]
	assert.Equal(t, create.Body, createResponse.Body, "response cases reuse the first request example")

	show := cases[3]
	assert.Equal(t, []Param{{Name: "petId", In: "path", Value: "1"}}, show.Params)

	del := cases[4]
	assert.Equal(t, "DELETE", del.Method)
	assert.Equal(t, []string{"204"}, del.ExpectStatus)
	assert.Empty(t, del.SkipReason)
}

func TestPlan_NilDocument(t *testing.T) {
	_, err := Plan(nil)
	assert.Error(t, err)
}

const paramValuesDoc = `openapi: 3.1.0
info: {title: Params, version: '1'}
paths:
  /items/{id}:
    get:
      operationId: getItem
      parameters:
        - {name: id, in: path, required: true, schema: {type: integer, default: 7}}
        - {name: fields, in: query, schema: {type: array, examples: [[a, b]]}}
        - {name: sort, in: query, schema: {type: string, enum: [asc, desc]}}
        - name: X-Trace
          in: header
          examples:
            first: {value: abc}
        - {name: session, in: cookie, schema: {type: string, example: s1}}
        - {name: ignored, in: query, schema: {type: string}}
      responses:
        '200': {description: ok}
  /blocked/{id}:
    get:
      operationId: blocked
      parameters:
        - {name: id, in: path, required: true, schema: {type: string}}
      responses:
        '200': {description: ok}
  /orphans/{slug}:
    get:
      operationId: orphan
      responses:
        '200': {description: ok}
  /uploads:
    post:
      operationId: upload
      requestBody:
        required: true
        content:
          text/plain:
            example: hello
          application/octet-stream:
            example: {not: text}
          application/json:
            examples:
              remote: {externalValue: 'https://example.com/x.json'}
      responses:
        '201': {description: created}
  /required-body:
    post:
      operationId: requiredBody
      requestBody:
        required: true
        content:
          application/json:
            schema: {type: object}
      responses:
        '200': {description: ok}
`

func TestPlan_ParameterValues(t *testing.T) {
	cases, err := Plan(parseDoc(t, paramValuesDoc))
	require.NoError(t, err)

	byID := make(map[string]Case)
	for _, c := range cases {
		byID[c.ID()] = c
	}

	item := byID["getItem#default"]
	assert.Equal(t, []Param{
		{Name: "id", In: "path", Value: "7"},
		{Name: "fields", In: "query", Value: "a,b"},
		{Name: "sort", In: "query", Value: "asc"},
		{Name: "X-Trace", In: "header", Value: "abc"},
		{Name: "session", In: "cookie", Value: "s1"},
	}, item.Params)
	assert.Empty(t, item.SkipReason)

	blocked := byID["blocked#default"]
	assert.Contains(t, blocked.SkipReason, `required path parameter "id"`)

	orphan := byID["orphan#default"]
	assert.Equal(t, `path template variable "slug" has no declared path parameter`, orphan.SkipReason)

	json := byID["upload#request/application/json/remote"]
	assert.Equal(t, "external example values are not fetched", json.SkipReason)

	octet := byID["upload#request/application/octet-stream/example"]
	assert.Contains(t, octet.SkipReason, "non-string example")

	text := byID["upload#request/text/plain/example"]
	assert.Empty(t, text.SkipReason)
	assert.Equal(t, "hello", string(text.Body))
	assert.Equal(t, []string{"201"}, text.ExpectStatus)

	required := byID["requiredBody#default"]
	assert.Equal(t, "request body is required but declares no example", required.SkipReason)
}

func TestSerializeSimple(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{3, "3"},
		{2.5, "2.5"},
		{1e21, "1000000000000000000000"},
		{true, "true"},
		{[]any{1, "b"}, "1,b"},
		{map[string]any{"b": 2, "a": "x"}, "a,x,b,2"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, serializeSimple(tt.in))
		})
	}
}
