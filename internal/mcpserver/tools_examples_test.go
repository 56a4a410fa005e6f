package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badExampleDoc = `openapi: 3.1.0
info: {title: Examples, version: '1'}
paths:
  /items:
    get:
      parameters:
        - name: size
          in: query
          schema: {type: integer, maximum: 10}
          example: 50
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {type: object, required: [id]}
              examples:
                good: {value: {id: 1}}
                bad: {value: {name: x}}
`

func TestValidateExamplesTool_Petstore(t *testing.T) {
	result, output, err := handleValidateExamples(context.Background(), &mcp.CallToolRequest{}, validateExamplesInput{Spec: petstore})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 6, output.Total)
	assert.Zero(t, output.Invalid)
	assert.Equal(t, 6, output.Returned)
	assert.Equal(t, "/paths/~1pets/get/parameters/0/example", output.Results[0].Location)
	for _, r := range output.Results {
		assert.True(t, r.Valid, r.Location)
	}
}

func TestValidateExamplesTool_Failures(t *testing.T) {
	spec := specInput{Content: badExampleDoc}

	_, all, err := handleValidateExamples(context.Background(), &mcp.CallToolRequest{}, validateExamplesInput{Spec: spec})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 2, all.Invalid)
	assert.Len(t, all.Results, 3)

	_, failed, err := handleValidateExamples(context.Background(), &mcp.CallToolRequest{}, validateExamplesInput{Spec: spec, FailuresOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 3, failed.Total)
	require.Len(t, failed.Results, 2)

	size := failed.Results[0]
	assert.Equal(t, "/paths/~1items/get/parameters/0/example", size.Location)
	assert.False(t, size.Valid)
	require.Len(t, size.Errors, 1)
	assert.Equal(t, "maximum", size.Errors[0].Keyword)

	bad := failed.Results[1]
	assert.Equal(t, "/paths/~1items/get/responses/200/content/application~1json/examples/bad/value", bad.Location)
	assert.Equal(t, "MissingRequiredProperty", bad.Errors[0].Code)
}

func TestValidateExamplesTool_BadSpec(t *testing.T) {
	result, _, err := handleValidateExamples(context.Background(), &mcp.CallToolRequest{}, validateExamplesInput{Spec: specInput{File: "testdata/missing.yaml"}})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
