// Package oasconform validates JSON values and live API traffic against the
// schemas declared in an OpenAPI 3.1 document.
//
// # Overview
//
// The library consists of three primary packages:
//
//   - parser: Load an OpenAPI document into an immutable model with a component
//     registry and a reference resolver
//   - validator: Validate JSON values and declared examples against schemas
//   - conformance: Exercise a live API with requests built from declared
//     examples and check every response against its contract
//
// Errors that callers may want to branch on live in the oaserrors package.
//
// # Quick Start
//
// Validate a value against a component schema:
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, err := validator.New(result.Document.Components)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, verr := range v.ValidateComponent(value, "Pet") {
//		fmt.Println(verr)
//	}
//
// Check a running service:
//
//	checker, err := conformance.New(result.Document,
//		conformance.WithBaseURL("http://localhost:8080"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := checker.Run(ctx)
//
// # Command-Line Tool
//
// The oasconform CLI wraps these packages:
//
//	oasconform validate --schema Pet openapi.yaml pet.json
//	oasconform examples openapi.yaml
//	oasconform resolve openapi.yaml '#/components/schemas/Pet'
//	oasconform check --base-url http://localhost:8080 openapi.yaml
//	oasconform mcp
package oasconform
