package conformance

import (
	"time"

	"github.com/erraggy/oasconform/validator"
)

// Outcome classifies one report entry.
type Outcome string

const (
	// OutcomePass means the response status was expected and the response
	// matched its declared schema and headers.
	OutcomePass Outcome = "pass"
	// OutcomeValidationFailed means the API answered but the response does
	// not match its own contract.
	OutcomeValidationFailed Outcome = "validation_failed"
	// OutcomeTransportFailed means no response was received: connection
	// errors, timeouts, cancellation, or an unreadable body.
	OutcomeTransportFailed Outcome = "transport_failed"
	// OutcomeStatusMismatch means the response status is not declared by the
	// operation, or is not the status the example expects.
	OutcomeStatusMismatch Outcome = "status_mismatch"
	// OutcomeSkipped means no request could be built for the case.
	OutcomeSkipped Outcome = "skipped"
)

// Outcomes lists every outcome in report order.
func Outcomes() []Outcome {
	return []Outcome{OutcomePass, OutcomeValidationFailed, OutcomeTransportFailed, OutcomeStatusMismatch, OutcomeSkipped}
}

// Entry is the result of one case.
type Entry struct {
	OperationID string  `json:"operationId" yaml:"operationId"`
	Method      string  `json:"method" yaml:"method"`
	Path        string  `json:"path" yaml:"path"`
	ExampleID   string  `json:"exampleId" yaml:"exampleId"`
	Outcome     Outcome `json:"outcome" yaml:"outcome"`
	// Errors are body validation failures
	Errors []validator.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
	// HeaderErrors are response header failures, located at the header name
	HeaderErrors []validator.ValidationError `json:"headerErrors,omitempty" yaml:"headerErrors,omitempty"`
	// Reason explains transport failures, status mismatches and skips
	Reason           string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	ExpectedStatuses []string      `json:"expectedStatuses,omitempty" yaml:"expectedStatuses,omitempty"`
	ActualStatus     int           `json:"actualStatus,omitempty" yaml:"actualStatus,omitempty"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
	// Err is the transport error behind a transport failure
	Err error `json:"-" yaml:"-"`
}

// Passed reports whether the entry passed.
func (e Entry) Passed() bool {
	return e.Outcome == OutcomePass
}

// Report is the result of a conformance run. Entries are in plan order.
type Report struct {
	RunID     string        `json:"runId" yaml:"runId"`
	BaseURL   string        `json:"baseUrl" yaml:"baseUrl"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Entries   []Entry       `json:"entries" yaml:"entries"`
}

// Passed reports whether every entry passed or was skipped.
func (r *Report) Passed() bool {
	for _, e := range r.Entries {
		if e.Outcome != OutcomePass && e.Outcome != OutcomeSkipped {
			return false
		}
	}
	return true
}

// Counts returns the number of entries per outcome.
func (r *Report) Counts() map[Outcome]int {
	counts := make(map[Outcome]int, len(Outcomes()))
	for _, e := range r.Entries {
		counts[e.Outcome]++
	}
	return counts
}

// Failed returns the entries that neither passed nor were skipped.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Outcome != OutcomePass && e.Outcome != OutcomeSkipped {
			out = append(out, e)
		}
	}
	return out
}
