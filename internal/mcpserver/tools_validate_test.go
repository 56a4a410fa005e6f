package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var petstore = specInput{File: "testdata/petstore.yaml"}

func callValidateValue(t *testing.T, input validateValueInput) (*mcp.CallToolResult, validateValueOutput) {
	t.Helper()
	result, output, err := handleValidateValue(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	return result, output
}

func TestValidateValueTool_ComponentSchema(t *testing.T) {
	tests := []struct {
		name      string
		input     validateValueInput
		wantValid bool
		wantCodes []string
		wantLocs  []string
	}{
		{
			name:      "valid pet by name",
			input:     validateValueInput{Spec: petstore, Schema: "Pet", ValueJSON: `{"id": 1, "name": "Rex"}`},
			wantValid: true,
		},
		{
			name:      "missing id by ref",
			input:     validateValueInput{Spec: petstore, Ref: "#/components/schemas/Pet", ValueJSON: `{"name": "Rex"}`},
			wantCodes: []string{"MissingRequiredProperty"},
			wantLocs:  []string{"/"},
		},
		{
			name: "decoded value",
			input: validateValueInput{Spec: petstore, Schema: "Pet", Value: map[string]any{
				"id": float64(0), "name": "",
			}},
			wantCodes: []string{"ConstraintViolation", "ConstraintViolation"},
			wantLocs:  []string{"/name", "/id"},
		},
		{
			name:      "inline schema referencing a component",
			input:     validateValueInput{Spec: petstore, InlineSchema: `{type: array, items: {$ref: '#/components/schemas/NewPet'}}`, ValueJSON: `[{"name": "a"}, {"tag": 1}]`},
			wantCodes: []string{"MissingRequiredProperty", "TypeMismatch"},
			wantLocs:  []string{"/1", "/1/tag"},
		},
		{
			name:      "unknown component",
			input:     validateValueInput{Spec: petstore, Schema: "Cat", ValueJSON: `{}`},
			wantCodes: []string{"ReferenceFailure"},
			wantLocs:  []string{"/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output := callValidateValue(t, tt.input)
			require.Nil(t, result)
			assert.Equal(t, tt.wantValid, output.Valid)
			assert.Equal(t, len(tt.wantCodes), output.ErrorCount)

			var codes, locs []string
			for _, e := range output.Errors {
				codes = append(codes, e.Code)
				locs = append(locs, e.Location)
			}
			assert.Equal(t, tt.wantCodes, codes)
			assert.Equal(t, tt.wantLocs, locs)
		})
	}
}

func TestValidateValueTool_BranchCausesHaveDepth(t *testing.T) {
	_, output := callValidateValue(t, validateValueInput{
		Spec:         petstore,
		InlineSchema: `{anyOf: [{type: string}, {type: integer}]}`,
		ValueJSON:    `true`,
	})
	require.Len(t, output.Errors, 3)
	assert.Equal(t, "NoBranchMatched", output.Errors[0].Code)
	assert.Equal(t, 0, output.Errors[0].Depth)
	assert.Equal(t, 1, output.Errors[1].Depth)
	assert.Equal(t, 1, output.Errors[2].Depth)
}

func TestValidateValueTool_FormatAssertions(t *testing.T) {
	input := validateValueInput{
		Spec:         petstore,
		InlineSchema: `{type: string, format: email}`,
		ValueJSON:    `"not-an-email"`,
	}
	_, output := callValidateValue(t, input)
	assert.True(t, output.Valid, "format is an annotation by default")

	on := true
	input.FormatAssertions = &on
	_, output = callValidateValue(t, input)
	assert.False(t, output.Valid)
}

func TestValidateValueTool_Pagination(t *testing.T) {
	_, output := callValidateValue(t, validateValueInput{
		Spec:         petstore,
		InlineSchema: `{type: array, items: {type: integer}}`,
		ValueJSON:    `["a", "b", "c", "d"]`,
		Offset:       1,
		Limit:        2,
	})
	assert.Equal(t, 4, output.ErrorCount)
	assert.Equal(t, 2, output.Returned)
	assert.Equal(t, "/1", output.Errors[0].Location)
	assert.Equal(t, "/2", output.Errors[1].Location)
}

func TestValidateValueTool_InputErrors(t *testing.T) {
	tests := []struct {
		name  string
		input validateValueInput
		want  string
	}{
		{"no schema", validateValueInput{Spec: petstore, ValueJSON: `1`}, "one of schema, ref or inline_schema"},
		{"two schemas", validateValueInput{Spec: petstore, Schema: "Pet", Ref: "#/components/schemas/Pet"}, "only one of"},
		{"bad spec", validateValueInput{Spec: specInput{Content: `openapi: "2.0"`}, Schema: "Pet"}, "unsupported OpenAPI version"},
		{"bad value", validateValueInput{Spec: petstore, Schema: "Pet", ValueJSON: `{"a": [}`}, "value_json"},
		{"bad inline schema", validateValueInput{Spec: petstore, InlineSchema: `42`}, "inline_schema"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := callValidateValue(t, tt.input)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text := result.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, tt.want)
		})
	}
}
