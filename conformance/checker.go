package conformance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasconform/oaserrors"
	"github.com/erraggy/oasconform/parser"
	"github.com/erraggy/oasconform/validator"
)

// Checker exercises a live API with the examples of a document.
// A Checker is safe for concurrent use; each Run gets its own RunID, and
// CheckCase calls outside a run share one generated at New.
type Checker struct {
	doc       *parser.Document
	cfg       config
	validator *validator.Validator
	runID     string
}

// New creates a Checker for doc. Without WithBaseURL the first server URL of
// the document is used; a document without servers then fails with a
// configuration error.
func New(doc *parser.Document, opts ...Option) (*Checker, error) {
	if doc == nil {
		return nil, errors.New("conformance: nil document")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("conformance: invalid options: %w", err)
		}
	}
	if cfg.baseURL == "" {
		if len(doc.Servers) == 0 || doc.Servers[0] == nil {
			return nil, fmt.Errorf("conformance: invalid options: %w",
				&oaserrors.ConfigError{Option: "baseURL", Message: "not set and the document declares no servers"})
		}
		if err := WithBaseURL(doc.Servers[0].ExpandedURL())(cfg); err != nil {
			return nil, fmt.Errorf("conformance: invalid options: %w", err)
		}
	}

	v, err := validator.New(doc.Components, append([]validator.Option{validator.WithLogger(cfg.logger)}, cfg.validator...)...)
	if err != nil {
		return nil, fmt.Errorf("conformance: %w", err)
	}
	return &Checker{doc: doc, cfg: *cfg, validator: v, runID: uuid.NewString()}, nil
}

// BaseURL returns the URL requests are sent to.
func (c *Checker) BaseURL() string {
	return c.cfg.baseURL
}

// Plan returns the cases Run would execute, honouring WithOperations.
func (c *Checker) Plan() ([]Case, error) {
	cases, err := Plan(c.doc)
	if err != nil {
		return nil, err
	}
	if c.cfg.operations == nil {
		return cases, nil
	}
	var out []Case
	for _, tc := range cases {
		if c.cfg.operations[tc.OperationID] {
			out = append(out, tc)
		}
	}
	return out, nil
}

// Run plans every case of the document and executes them. When ctx ends
// before the run completes, the partial report is returned with an error,
// since cases that were never sent are reported as skipped.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	cases, err := c.Plan()
	if err != nil {
		return nil, err
	}
	report := c.RunCases(ctx, cases)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("conformance: run interrupted: %w", err)
	}
	return report, nil
}

// RunCases executes cases concurrently, bounded by WithConcurrency. Each case
// has its own timeout, so one slow endpoint cannot fail the others. Entries
// are reported in the order of cases.
func (c *Checker) RunCases(ctx context.Context, cases []Case) *Report {
	run := *c
	run.runID = uuid.NewString()

	report := &Report{
		RunID:     run.runID,
		BaseURL:   c.cfg.baseURL,
		StartedAt: time.Now(),
		Entries:   make([]Entry, len(cases)),
	}
	log := c.cfg.logger.With("run", run.runID)
	log.Info("conformance run started", "cases", len(cases), "baseURL", c.cfg.baseURL)

	g := new(errgroup.Group)
	g.SetLimit(c.cfg.concurrency)
	for i, tc := range cases {
		g.Go(func() error {
			report.Entries[i] = run.CheckCase(ctx, tc)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(report.StartedAt)
	log.Info("conformance run finished", "duration", report.Duration, "passed", report.Passed())
	return report
}

// CheckCase executes one case and classifies the result.
func (c *Checker) CheckCase(ctx context.Context, tc Case) Entry {
	start := time.Now()
	entry := c.checkCase(ctx, tc)
	entry.OperationID = tc.OperationID
	entry.Method = tc.Method
	entry.Path = tc.Path
	entry.ExampleID = tc.ExampleID
	entry.Duration = time.Since(start)

	c.cfg.metrics.observe(entry)
	c.cfg.logger.Debug("case finished",
		"case", tc.ID(), "outcome", entry.Outcome, "status", entry.ActualStatus, "duration", entry.Duration)
	return entry
}

func (c *Checker) checkCase(ctx context.Context, tc Case) Entry {
	if tc.SkipReason != "" {
		return Entry{Outcome: OutcomeSkipped, Reason: tc.SkipReason}
	}
	op, ok := c.doc.Operation(tc.Method, tc.Path)
	if !ok {
		return Entry{Outcome: OutcomeSkipped, Reason: fmt.Sprintf("operation %s %s is not declared", tc.Method, tc.Path)}
	}

	// The rate limiter paces against the run context; the case timeout only
	// starts once the request may be sent.
	if c.cfg.limiter != nil {
		if err := c.cfg.limiter.Wait(ctx); err != nil {
			return notSent(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return notSent(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	req, err := c.buildRequest(ctx, tc, c.doc.SecurityFor(op.Operation))
	if err != nil {
		return transportFailure(tc, c.cfg.baseURL+tc.Path, err)
	}
	resp, err := c.cfg.client.Do(req)
	if err != nil {
		return transportFailure(tc, req.URL.String(), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(tc, req.URL.String(), err)
	}

	entry := Entry{ActualStatus: resp.StatusCode, ExpectedStatuses: tc.ExpectStatus}
	key, ref, ok := c.responseFor(op.Operation, resp.StatusCode)
	if !ok {
		entry.Outcome = OutcomeStatusMismatch
		entry.ExpectedStatuses = op.Operation.Responses.StatusCodes()
		entry.Reason = fmt.Sprintf("status %d is not declared for the operation", resp.StatusCode)
		return entry
	}
	if !statusExpected(tc.ExpectStatus, key) {
		entry.Outcome = OutcomeStatusMismatch
		entry.Reason = fmt.Sprintf("status %d matched response %q, expected %v", resp.StatusCode, key, tc.ExpectStatus)
		return entry
	}

	def, err := parser.Deref(c.doc.Components, *ref)
	if err != nil {
		entry.Outcome = OutcomeValidationFailed
		entry.Errors = []validator.ValidationError{{
			Keyword: "$ref",
			Code:    validator.CodeReferenceFailure,
			Message: err.Error(),
			Err:     err,
		}}
		return entry
	}

	entry.HeaderErrors = c.checkHeaders(def, resp.Header)
	entry.Errors = c.checkBody(def, resp.Header.Get("Content-Type"), body)
	entry.Outcome = OutcomePass
	if len(entry.Errors) > 0 || len(entry.HeaderErrors) > 0 {
		entry.Outcome = OutcomeValidationFailed
	}
	return entry
}

// notSent reports a case whose request never left because the run ended.
func notSent(err error) Entry {
	return Entry{Outcome: OutcomeSkipped, Reason: "request not sent: " + err.Error()}
}

func transportFailure(tc Case, target string, err error) Entry {
	terr := &oaserrors.TransportError{
		Method:  tc.Method,
		URL:     target,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Cause:   err,
	}
	return Entry{
		Outcome:          OutcomeTransportFailed,
		Reason:           terr.Error(),
		ExpectedStatuses: tc.ExpectStatus,
		Err:              terr,
	}
}
