package parser

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasconform/oaserrors"
)

func loadTestdata(t *testing.T, name string) *ParseResult {
	t.Helper()
	result, err := ParseWithOptions(WithFilePath("testdata/" + name))
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	return result
}

func TestParse_Petstore(t *testing.T) {
	result := loadTestdata(t, "petstore.yaml")

	assert.Equal(t, "3.1.0", result.Version)
	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, "testdata/petstore.yaml", result.SourcePath)
	assert.Empty(t, result.Warnings)
	assert.Positive(t, result.SourceSize)

	doc := result.Document
	assert.Equal(t, "Petstore", doc.Info.Title)
	assert.Equal(t, "MIT", doc.Info.License.Identifier)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "http://localhost:8080/v1", doc.Servers[0].ExpandedURL())

	assert.Equal(t, DocumentStats{PathCount: 2, OperationCount: 4, SchemaCount: 3, ComponentCount: 9}, result.Stats)
}

func TestParse_JSON(t *testing.T) {
	result := loadTestdata(t, "petstore.json")
	assert.Equal(t, SourceFormatJSON, result.SourceFormat)
	assert.Empty(t, result.Warnings)

	pet, err := result.Document.Components.ResolveSchema("#/components/schemas/Pet")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, pet.Required)
	assert.True(t, pet.HasType(TypeObject))
}

func TestParseInputSources(t *testing.T) {
	data, err := os.ReadFile("testdata/petstore.json")
	require.NoError(t, err)

	tests := []struct {
		name       string
		opts       []Option
		wantSource string
	}{
		{"bytes", []Option{WithBytes(data)}, "ParseBytes.json"},
		{"reader", []Option{WithReader(strings.NewReader(string(data)))}, "ParseReader.json"},
		{"source name override", []Option{WithBytes(data), WithSourceName("petstore")}, "petstore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseWithOptions(tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, result.SourcePath)
			assert.Equal(t, 1, result.Stats.OperationCount)
		})
	}
}

func TestParseWithOptions_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no source", nil},
		{"two sources", []Option{WithFilePath("a.yaml"), WithBytes([]byte("{}"))}},
		{"nil reader", []Option{WithReader(nil)}},
		{"nil bytes", []Option{WithBytes(nil)}},
		{"negative depth", []Option{WithBytes([]byte("{}")), WithMaxRefDepth(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithOptions(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
		})
	}
}

func TestParse_VersionGate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     string
		wantWarning string
	}{
		{name: "3.1", input: "openapi: 3.1.1\ninfo: {title: t, version: '1'}\npaths: {}\n"},
		{
			name:        "3.0 loads with a warning",
			input:       "openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n",
			wantWarning: "openapi 3.0.3 is loaded with 3.1 semantics",
		},
		{name: "swagger", input: "swagger: '2.0'\ninfo: {title: t, version: '1'}\n", wantErr: "swagger"},
		{name: "missing version", input: "info: {title: t, version: '1'}\n", wantErr: "unable to detect OpenAPI version"},
		{name: "future version", input: "openapi: 4.0.0\n", wantErr: "unsupported OpenAPI version: 4.0.0"},
		{name: "numeric version", input: "openapi: 3.1\n", wantErr: "unable to detect OpenAPI version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseWithOptions(WithBytes([]byte(tt.input)))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, oaserrors.ErrParse)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantWarning != "" {
				assert.Contains(t, result.Warnings, tt.wantWarning)
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"broken json", `{"openapi": "3.1.0",`},
		{"broken yaml", "openapi: 3.1.0\ninfo: [unclosed\n"},
		{"empty", ""},
		{"scalar root", "just a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithOptions(WithBytes([]byte(tt.input)))
			require.Error(t, err)
			var perr *oaserrors.ParseError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := ParseWithOptions(WithFilePath("testdata/does-not-exist.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_LoadWarnings(t *testing.T) {
	input := `openapi: 3.1.0
info: {title: t, version: '1'}
paths:
  /items/{id}:
    parameters:
      - name: id
        in: path
        schema: {type: string}
      - name: trace
        in: body
    get:
      responses:
        '200':
          description: ok
          content:
            not a media type:
              schema: {type: string}
        '999':
          description: bad code
components:
  schemas:
    Code:
      type: string
      pattern: '(?=lookahead)'
    Step:
      type: number
      multipleOf: 0
  examples:
    Both:
      value: 1
      externalValue: https://example.com/one.json
`
	result, err := ParseWithOptions(WithBytes([]byte(input)))
	require.NoError(t, err)

	want := []string{
		`/paths/~1items~1{id}/parameters/0: path parameter "id" must be required`,
		`/paths/~1items~1{id}/parameters/1: parameter "trace" has unknown location "body"`,
		`/paths/~1items~1{id}/get/responses/200/content: invalid media type "not a media type"`,
		`/paths/~1items~1{id}/get/responses/999: malformed status code "999"`,
		`/components/schemas/Code/pattern: invalid pattern "(?=lookahead)"`,
		`/components/schemas/Step/multipleOf: multipleOf must be greater than 0, got 0`,
		`/components/examples/Both: example declares both value and externalValue`,
	}
	for _, w := range want {
		found := false
		for _, got := range result.Warnings {
			if strings.HasPrefix(got, w) {
				found = true
				break
			}
		}
		assert.True(t, found, "missing warning %q in %v", w, result.Warnings)
	}

	// The invalid pattern is reported, not dropped: validation surfaces it later.
	code, err := result.Document.Components.ResolveSchema("#/components/schemas/Code")
	require.NoError(t, err)
	_, perr := code.PatternRegexp()
	assert.Error(t, perr)
}

func TestParse_DanglingReferenceWarnings(t *testing.T) {
	result := loadTestdata(t, "cycles.yaml")

	joined := strings.Join(result.Warnings, "\n")
	assert.Contains(t, joined, "/components/schemas/A: circular reference")
	assert.Contains(t, joined, "/components/schemas/Self: circular reference")
	assert.Contains(t, joined, "/components/schemas/Missing: unresolved reference: #/components/schemas/Nope")
	assert.Contains(t, joined, "/components/schemas/WrongKind: reference kind mismatch")
	assert.NotContains(t, joined, "/components/schemas/Node")
	assert.NotContains(t, joined, "/components/schemas/Alias")
}

func TestParse_OpenAPI30Compatibility(t *testing.T) {
	result := loadTestdata(t, "legacy30.yaml")
	assert.Contains(t, result.Warnings, "openapi 3.0.3 is loaded with 3.1 semantics")
	comps := result.Document.Components

	price, err := comps.ResolveSchema("#/components/schemas/Price")
	require.NoError(t, err)
	assert.Nil(t, price.Minimum)
	require.NotNil(t, price.ExclusiveMinimum)
	assert.Equal(t, 0.0, *price.ExclusiveMinimum)
	require.NotNil(t, price.Maximum)
	assert.Equal(t, 1000.0, *price.Maximum)
	assert.Nil(t, price.ExclusiveMaximum)

	nick, err := comps.ResolveSchema("#/components/schemas/Nickname")
	require.NoError(t, err)
	assert.True(t, nick.Nullable)

	pair, err := comps.ResolveSchema("#/components/schemas/Pair")
	require.NoError(t, err)
	require.Len(t, pair.PrefixItems, 2)
	assert.True(t, pair.PrefixItems[1].Value.HasType(TypeInteger))
	require.NotNil(t, pair.Items)
	assert.True(t, pair.Items.Value.IsBoolean())
	assert.False(t, *pair.Items.Value.Boolean)
}

func TestParse_YAMLNonStringKeys(t *testing.T) {
	input := `openapi: 3.1.0
info: {title: t, version: '1'}
paths:
  /ping:
    get:
      responses:
        200:
          description: ok
          content:
            application/json:
              example: {on: 2024-01-02}
`
	result, err := ParseWithOptions(WithBytes([]byte(input)))
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	e, ok := result.Document.Operation("GET", "/ping")
	require.True(t, ok)
	resp, ok := e.Operation.Responses.Codes["200"]
	require.True(t, ok)
	mt := resp.Value.Content["application/json"]
	require.NotNil(t, mt)
	assert.Equal(t, map[string]any{"on": "2024-01-02"}, mt.Example)
}

func TestParser_MaxRefDepth(t *testing.T) {
	input := `openapi: 3.1.0
info: {title: t, version: '1'}
paths: {}
components:
  schemas:
    A: {$ref: '#/components/schemas/B'}
    B: {$ref: '#/components/schemas/C'}
    C: {$ref: '#/components/schemas/D'}
    D: {type: string}
`
	result, err := ParseWithOptions(WithBytes([]byte(input)), WithMaxRefDepth(2))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Document.Components.MaxRefDepth())

	_, err = result.Document.Components.ResolveSchema("#/components/schemas/A")
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrResourceLimit)

	_, err = result.Document.Components.ResolveSchema("#/components/schemas/C")
	assert.NoError(t, err)
}

func TestParseSchema(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, s SchemaOrRef)
		wantErr bool
	}{
		{
			name:  "object",
			input: "type: object\nrequired: [a]\n",
			check: func(t *testing.T, s SchemaOrRef) {
				require.NotNil(t, s.Value)
				assert.Equal(t, []string{"a"}, s.Value.Required)
			},
		},
		{
			name:  "reference",
			input: `{"$ref": "#/components/schemas/Pet"}`,
			check: func(t *testing.T, s SchemaOrRef) {
				assert.True(t, s.IsRef())
				assert.Equal(t, "#/components/schemas/Pet", s.Ref)
			},
		},
		{
			name:  "boolean",
			input: "false",
			check: func(t *testing.T, s SchemaOrRef) {
				require.NotNil(t, s.Value)
				assert.True(t, s.Value.IsBoolean())
			},
		},
		{name: "number", input: "42", wantErr: true},
		{name: "broken", input: "{", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, err := ParseSchema([]byte(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, oaserrors.ErrParse)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"json object", `{"a": 1}`, map[string]any{"a": json.Number("1")}},
		{"json array", `[1, "x", null]`, []any{json.Number("1"), "x", nil}},
		{"json large integer", `[9007199254740993]`, []any{json.Number("9007199254740993")}},
		{"json trailing data is yaml", `{"a": 1} # note`, map[string]any{"a": 1}},
		{"yaml mapping", "a: 1\nb: [true]\n", map[string]any{"a": 1, "b": []any{true}}},
		{"yaml scalar", "hello", "hello"},
		{"null", "null", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, SourceFormatJSON, detectFormatFromPath("a/b.JSON"))
	assert.Equal(t, SourceFormatYAML, detectFormatFromPath("a/b.yml"))
	assert.Equal(t, SourceFormatUnknown, detectFormatFromPath("a/b.txt"))
	assert.Equal(t, SourceFormatJSON, detectFormatFromContent([]byte("  \n{}")))
	assert.Equal(t, SourceFormatYAML, detectFormatFromContent([]byte("openapi: 3.1.0")))
}
