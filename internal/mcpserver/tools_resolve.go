package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasconform/oaserrors"
	"github.com/erraggy/oasconform/parser"
)

type resolveRefInput struct {
	Spec specInput `json:"spec"           jsonschema:"The OpenAPI document holding the components"`
	Ref  string    `json:"ref"            jsonschema:"Reference to resolve, e.g. #/components/schemas/Pet, or a bare name when kind is set"`
	Kind string    `json:"kind,omitempty" jsonschema:"Required component kind: schemas, parameters, responses, requestBodies, headers, examples, securitySchemes, links or callbacks"`
}

type resolveRefOutput struct {
	Ref       string   `json:"ref"`
	Kind      string   `json:"kind,omitempty"`
	Resolved  bool     `json:"resolved"`
	Target    string   `json:"target,omitempty"`
	Chain     []string `json:"chain,omitempty"`
	Value     any      `json:"value,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func handleResolveRef(_ context.Context, _ *mcp.CallToolRequest, input resolveRefInput) (*mcp.CallToolResult, resolveRefOutput, error) {
	if input.Ref == "" {
		return errResult(fmt.Errorf("ref is required")), resolveRefOutput{}, nil
	}
	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), resolveRefOutput{}, nil
	}

	ref := input.Ref
	var kind parser.Kind
	if input.Kind != "" {
		k, ok := parser.ParseKind(input.Kind)
		if !ok {
			return errResult(fmt.Errorf("unknown component kind %q", input.Kind)), resolveRefOutput{}, nil
		}
		kind = k
		if !strings.HasPrefix(ref, "#") {
			ref = parser.FormatRef(kind, ref)
		}
	}

	output := resolveRefOutput{Ref: ref}
	if kind == "" {
		// Without an explicit kind the pointer's own kind is required.
		k, _, err := parser.ParseRef(ref)
		if err != nil {
			return nil, refFailure(output, err), nil
		}
		kind = k
	}
	output.Kind = kind.String()

	comps := result.Document.Components
	rc := parser.NewResolutionContext(comps.MaxRefDepth())
	if _, err := comps.ResolveWith(rc, ref, kind); err != nil {
		return nil, refFailure(output, err), nil
	}

	output.Resolved = true
	output.Chain = rc.Chain()
	output.Target = output.Chain[len(output.Chain)-1]
	output.Value = rawComponent(result.Data, output.Target)
	return nil, output, nil
}

func refFailure(output resolveRefOutput, err error) resolveRefOutput {
	var refErr *oaserrors.ReferenceError
	if errors.As(err, &refErr) {
		output.ErrorKind = refErr.Kind.String()
		output.Chain = refErr.Chain
	}
	output.Error = sanitizeError(err)
	return output
}

// rawComponent returns the loaded tree of the component named by ref, as it
// appears in the source document.
func rawComponent(data map[string]any, ref string) any {
	kind, name, err := parser.ParseRef(ref)
	if err != nil {
		return nil
	}
	components, _ := data["components"].(map[string]any)
	byKind, _ := components[string(kind)].(map[string]any)
	return byKind[name]
}
