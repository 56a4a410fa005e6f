package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasconform/internal/options"
	"github.com/erraggy/oasconform/parser"
	"github.com/erraggy/oasconform/validator"
)

type validateValueInput struct {
	Spec             specInput `json:"spec"                        jsonschema:"The OpenAPI document whose components are used"`
	Schema           string    `json:"schema,omitempty"            jsonschema:"Name of a component schema"`
	Ref              string    `json:"ref,omitempty"               jsonschema:"Schema reference, e.g. #/components/schemas/Pet"`
	InlineSchema     string    `json:"inline_schema,omitempty"     jsonschema:"Inline schema as JSON or YAML text"`
	Value            any       `json:"value,omitempty"             jsonschema:"The value to validate"`
	ValueJSON        string    `json:"value_json,omitempty"        jsonschema:"The value to validate as JSON text; takes precedence over value"`
	FormatAssertions *bool     `json:"format_assertions,omitempty" jsonschema:"Treat format as an assertion (date, date-time, email, uuid, uri, ipv4, ipv6)"`
	Offset           int       `json:"offset,omitempty"            jsonschema:"Skip the first N errors (for pagination)"`
	Limit            int       `json:"limit,omitempty"             jsonschema:"Maximum number of errors to return (default 100)"`
}

// validationIssue is one failure. Depth is 0 for top-level failures and
// grows by one for each level of anyOf/oneOf branch causes.
type validationIssue struct {
	Location string `json:"location"`
	Keyword  string `json:"keyword,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Depth    int    `json:"depth,omitempty"`
}

type validateValueOutput struct {
	Valid      bool              `json:"valid"`
	Schema     string            `json:"schema"`
	ErrorCount int               `json:"error_count"`
	Returned   int               `json:"returned"`
	Errors     []validationIssue `json:"errors,omitempty"`
}

func handleValidateValue(_ context.Context, _ *mcp.CallToolRequest, input validateValueInput) (*mcp.CallToolResult, validateValueOutput, error) {
	if err := options.ValidateSingleInputSource(
		"one of schema, ref or inline_schema must be provided",
		"only one of schema, ref or inline_schema may be provided",
		input.Schema != "", input.Ref != "", input.InlineSchema != "",
	); err != nil {
		return errResult(err), validateValueOutput{}, nil
	}

	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), validateValueOutput{}, nil
	}

	var schema parser.SchemaOrRef
	label := input.Ref
	switch {
	case input.Schema != "":
		label = parser.FormatRef(parser.KindSchemas, input.Schema)
		schema = parser.RefTo[parser.Schema](label)
	case input.Ref != "":
		schema = parser.RefTo[parser.Schema](input.Ref)
	default:
		label = "inline"
		schema, _, err = parser.ParseSchema([]byte(input.InlineSchema))
		if err != nil {
			return errResult(fmt.Errorf("inline_schema: %w", err)), validateValueOutput{}, nil
		}
	}

	value := input.Value
	if input.ValueJSON != "" {
		value, err = parser.ParseValue([]byte(input.ValueJSON))
		if err != nil {
			return errResult(fmt.Errorf("value_json: %w", err)), validateValueOutput{}, nil
		}
	}

	v, err := newValidator(result.Document.Components, input.FormatAssertions)
	if err != nil {
		return errResult(err), validateValueOutput{}, nil
	}

	issues := toIssues(v.Validate(value, schema), 0)
	page := paginate(issues, input.Offset, input.Limit)
	return nil, validateValueOutput{
		Valid:      len(issues) == 0,
		Schema:     label,
		ErrorCount: len(issues),
		Returned:   len(page),
		Errors:     page,
	}, nil
}

// newValidator builds a validator with the server defaults, letting a tool
// call override the format assertion setting.
func newValidator(reg *parser.Components, formatAssertions *bool) (*validator.Validator, error) {
	formats := cfg.FormatAssertions
	if formatAssertions != nil {
		formats = *formatAssertions
	}
	return validator.New(reg,
		validator.WithMaxDepth(cfg.MaxDepth),
		validator.WithFormatAssertions(formats),
	)
}

// toIssues lists errs depth first, each aggregate followed by its causes.
func toIssues(errs []validator.ValidationError, depth int) []validationIssue {
	var out []validationIssue
	for _, e := range errs {
		loc := e.Location
		if loc == "" {
			loc = "/"
		}
		out = append(out, validationIssue{
			Location: loc,
			Keyword:  e.Keyword,
			Code:     string(e.Code),
			Message:  e.Message,
			Depth:    depth,
		})
		out = append(out, toIssues(e.Causes, depth+1)...)
	}
	return out
}
