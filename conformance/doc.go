// Package conformance checks a live API against its own OpenAPI document.
//
// Plan turns every declared example into a Case: request body examples
// become requests, and response examples become requests that expect the
// status they are declared under. Operations without examples get a single
// default case. Parameter values come from parameter examples, then from the
// schema default, example or first enum value.
//
// # Running
//
//	checker, err := conformance.New(doc,
//	    conformance.WithBaseURL("http://localhost:8080"),
//	    conformance.WithTimeout(5*time.Second),
//	    conformance.WithConcurrency(4),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := checker.Run(ctx)
//	fmt.Println(report.Passed(), report.Counts())
//
// Each case runs with its own timeout, so a slow endpoint only fails its own
// entry. Entries stay in plan order whatever order they complete in.
//
// # Outcomes
//
// An entry is one of pass, validation_failed (the response does not match
// the declared schema or headers), transport_failed (no usable response was
// received), status_mismatch (the status is undeclared or is not the one the
// example expects) or skipped (no request could be built).
//
// Only JSON response bodies are validated. Response headers are coerced from
// their simple-style string form before validation.
package conformance
