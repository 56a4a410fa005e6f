package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

const badExamplesDoc = `openapi: 3.1.0
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
`

func TestHandleExamples_Petstore(t *testing.T) {
	out, _ := captureOutput(t)
	require.NoError(t, HandleExamples([]string{petstore}))
	assert.Contains(t, out.String(), "✓ /paths/~1pets/get/parameters/0/example\n")
	assert.Contains(t, out.String(), "6 examples checked, 0 invalid")
}

func TestHandleExamples_Failures(t *testing.T) {
	spec := writeFile(t, "api.yaml", badExamplesDoc)

	t.Run("text", func(t *testing.T) {
		out, _ := captureOutput(t)
		err := HandleExamples([]string{spec})
		assert.ErrorIs(t, err, ErrFailed)
		assert.Contains(t, out.String(), "✗ /paths/~1items/get/parameters/0/example")
		assert.Contains(t, out.String(), "[ConstraintViolation] /: value 50 must be <= 10")
		assert.Contains(t, out.String(), "2 examples checked, 1 invalid")
	})

	t.Run("yaml failures only", func(t *testing.T) {
		out, _ := captureOutput(t)
		err := HandleExamples([]string{"--format", "yaml", "--failures-only", spec})
		assert.ErrorIs(t, err, ErrFailed)

		var result ExamplesResult
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 1, result.Invalid)
		require.Len(t, result.Examples, 1)
		assert.Equal(t, "/paths/~1items/get/parameters/0/example", result.Examples[0].Location)
		assert.Equal(t, "maximum", result.Examples[0].Errors[0].Keyword)
	})
}

func TestHandleExamples_Errors(t *testing.T) {
	captureOutput(t)
	assert.Error(t, HandleExamples(nil))
	assert.Error(t, HandleExamples([]string{"--format", "csv", petstore}))
	assert.Error(t, HandleExamples([]string{"testdata/nope.yaml"}))
}
