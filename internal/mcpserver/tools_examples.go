package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateExamplesInput struct {
	Spec             specInput `json:"spec"                        jsonschema:"The OpenAPI document whose examples are validated"`
	FailuresOnly     bool      `json:"failures_only,omitempty"     jsonschema:"Only return invalid examples"`
	FormatAssertions *bool     `json:"format_assertions,omitempty" jsonschema:"Treat format as an assertion"`
	Offset           int       `json:"offset,omitempty"            jsonschema:"Skip the first N results (for pagination)"`
	Limit            int       `json:"limit,omitempty"             jsonschema:"Maximum number of results to return (default 100)"`
}

type exampleResult struct {
	Location string            `json:"location"`
	Valid    bool              `json:"valid"`
	Errors   []validationIssue `json:"errors,omitempty"`
}

type validateExamplesOutput struct {
	Total    int             `json:"total"`
	Invalid  int             `json:"invalid"`
	Returned int             `json:"returned"`
	Results  []exampleResult `json:"results,omitempty"`
}

func handleValidateExamples(_ context.Context, _ *mcp.CallToolRequest, input validateExamplesInput) (*mcp.CallToolResult, validateExamplesOutput, error) {
	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), validateExamplesOutput{}, nil
	}
	v, err := newValidator(result.Document.Components, input.FormatAssertions)
	if err != nil {
		return errResult(err), validateExamplesOutput{}, nil
	}

	checked := v.ValidateExamples(result.Document)
	output := validateExamplesOutput{Total: len(checked)}
	results := makeSlice[exampleResult](len(checked))
	for _, r := range checked {
		if !r.Valid() {
			output.Invalid++
		} else if input.FailuresOnly {
			continue
		}
		results = append(results, exampleResult{
			Location: r.Location,
			Valid:    r.Valid(),
			Errors:   toIssues(r.Errors, 0),
		})
	}
	output.Results = paginate(results, input.Offset, input.Limit)
	output.Returned = len(output.Results)
	return nil, output, nil
}
