package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/erraggy/oasconform/conformance"
	"github.com/erraggy/oasconform/internal/cliutil"
	"github.com/erraggy/oasconform/internal/pathutil"
	"github.com/erraggy/oasconform/validator"
)

// CheckFlags contains flags for the check command
type CheckFlags struct {
	BaseURL          string
	Timeout          time.Duration
	Concurrency      int
	Rate             float64
	Burst            int
	Bearer           string
	Credentials      stringList
	Headers          stringList
	Operations       stringList
	Format           string
	MetricsTextfile  string
	FormatAssertions bool
	PlanOnly         bool
	LogLevel         string
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
// Defaults come from the OASCONFORM_* environment.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &CheckFlags{}
	env := LoadEnv()

	fs.StringVar(&flags.BaseURL, "base-url", env.BaseURL, "base URL of the API (default $OASCONFORM_BASE_URL, then the first server of the document)")
	fs.DurationVar(&flags.Timeout, "timeout", env.Timeout, "timeout of each request ($OASCONFORM_TIMEOUT)")
	fs.IntVar(&flags.Concurrency, "concurrency", env.Concurrency, "maximum requests in flight ($OASCONFORM_CONCURRENCY)")
	fs.Float64Var(&flags.Rate, "rate", env.RateLimit, "maximum requests per second, 0 for unlimited ($OASCONFORM_RATE_LIMIT)")
	fs.IntVar(&flags.Burst, "burst", 1, "rate limiter burst size")
	fs.StringVar(&flags.Bearer, "bearer", env.BearerToken, "bearer token for http bearer, oauth2 and openIdConnect schemes ($OASCONFORM_BEARER_TOKEN)")
	fs.Var(&flags.Credentials, "credential", "credential for a security scheme as name=value (repeatable)")
	fs.Var(&flags.Headers, "header", "extra request header as 'Name: value' (repeatable)")
	fs.Var(&flags.Operations, "operation", "only check this operationId (repeatable)")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.MetricsTextfile, "metrics-textfile", "", "write Prometheus metrics of the run to this file")
	fs.BoolVar(&flags.FormatAssertions, "format-assertions", env.FormatAssertions, "treat format as an assertion when validating responses")
	fs.BoolVar(&flags.PlanOnly, "plan", false, "print the planned cases without sending requests")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error (default $OASCONFORM_LOG_LEVEL or warn)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasconform check [flags] <spec|->\n\n")
		Writef(fs.Output(), "Send requests built from the examples of an OpenAPI 3.1 document to a running API\n")
		Writef(fs.Output(), "and check every response status, header and body against the document.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasconform check --base-url http://localhost:8080 openapi.yaml\n")
		Writef(fs.Output(), "  oasconform check --credential apiKey=secret --operation listPets openapi.yaml\n")
		Writef(fs.Output(), "  oasconform check --format json --metrics-textfile /var/lib/node_exporter/oasconform.prom openapi.yaml\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Every case passed or was skipped\n")
		Writef(fs.Output(), "  1    At least one case failed, or the command failed\n")
	}
	return fs, flags
}

// options translates the flags into checker options.
func (f *CheckFlags) options() ([]conformance.Option, error) {
	opts := []conformance.Option{
		conformance.WithTimeout(f.Timeout),
		conformance.WithConcurrency(f.Concurrency),
		conformance.WithBearerToken(f.Bearer),
		conformance.WithOperations(f.Operations...),
		conformance.WithValidatorOptions(validator.WithFormatAssertions(f.FormatAssertions)),
	}
	if f.BaseURL != "" {
		opts = append(opts, conformance.WithBaseURL(f.BaseURL))
	}
	if f.Rate > 0 {
		opts = append(opts, conformance.WithRateLimit(f.Rate, f.Burst))
	}
	if len(f.Credentials) > 0 {
		creds := make(map[string]string, len(f.Credentials))
		for _, c := range f.Credentials {
			name, value, ok := strings.Cut(c, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("invalid --credential %q: expected name=value", c)
			}
			creds[name] = value
		}
		opts = append(opts, conformance.WithCredentials(creds))
	}
	if len(f.Headers) > 0 {
		h := make(http.Header, len(f.Headers))
		for _, raw := range f.Headers {
			name, value, ok := strings.Cut(raw, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid --header %q: expected 'Name: value'", raw)
			}
			h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}
		opts = append(opts, conformance.WithHeaders(h))
	}
	return opts, nil
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("check command requires exactly one specification path, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	var textfile string
	if flags.MetricsTextfile != "" {
		p, err := pathutil.SanitizeOutputPath(flags.MetricsTextfile)
		if err != nil {
			return fmt.Errorf("invalid --metrics-textfile: %w", err)
		}
		textfile = p
	}

	opts, err := flags.options()
	if err != nil {
		return err
	}
	logger, err := newLogger(flags.LogLevel)
	if err != nil {
		return err
	}
	doc, err := loadDocument(fs.Arg(0), logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := conformance.NewMetrics(reg)
	if err != nil {
		return err
	}
	opts = append(opts, conformance.WithLogger(logger), conformance.WithMetrics(metrics))
	checker, err := conformance.New(doc.Document, opts...)
	if err != nil {
		return err
	}

	if flags.PlanOnly {
		cases, err := checker.Plan()
		if err != nil {
			return err
		}
		return writePlan(cases, flags.Format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := checker.Run(ctx)
	if err != nil {
		return err
	}

	if textfile != "" {
		if err := prometheus.WriteToTextfile(textfile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if flags.Format != FormatText {
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	} else {
		writeReportText(report)
	}
	if !report.Passed() {
		return ErrFailed
	}
	return nil
}

// plannedCase is the structured form of a planned case.
type plannedCase struct {
	ID           string              `json:"id" yaml:"id"`
	Method       string              `json:"method" yaml:"method"`
	Path         string              `json:"path" yaml:"path"`
	Params       []conformance.Param `json:"params,omitempty" yaml:"params,omitempty"`
	MediaType    string              `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Body         string              `json:"body,omitempty" yaml:"body,omitempty"`
	ExpectStatus []string            `json:"expectStatus,omitempty" yaml:"expectStatus,omitempty"`
	SkipReason   string              `json:"skipReason,omitempty" yaml:"skipReason,omitempty"`
}

func writePlan(cases []conformance.Case, format string) error {
	if format != FormatText {
		out := make([]plannedCase, len(cases))
		for i, c := range cases {
			out[i] = plannedCase{
				ID:           c.ID(),
				Method:       c.Method,
				Path:         c.Path,
				Params:       c.Params,
				MediaType:    c.MediaType,
				Body:         string(c.Body),
				ExpectStatus: c.ExpectStatus,
				SkipReason:   c.SkipReason,
			}
		}
		return OutputStructured(out, format)
	}
	for _, c := range cases {
		line := fmt.Sprintf("%-7s %s  %s  expect %s", c.Method, c.Path, c.ID(), strings.Join(c.ExpectStatus, "|"))
		if c.SkipReason != "" {
			line += "  (skip: " + c.SkipReason + ")"
		}
		Writef(stdout, "%s\n", line)
	}
	return nil
}

func writeReportText(r *conformance.Report) {
	Writef(stdout, "Conformance run %s against %s\n\n", r.RunID, r.BaseURL)
	for _, e := range r.Entries {
		Writef(stdout, "[%s] %s %s %s#%s", Label(string(e.Outcome)), e.Method, e.Path, e.OperationID, e.ExampleID)
		if e.ActualStatus != 0 {
			Writef(stdout, " -> %d", e.ActualStatus)
		}
		Writef(stdout, " (%s)\n", e.Duration.Round(time.Millisecond))
		if e.Reason != "" {
			Writef(stdout, "    %s\n", e.Reason)
		}
		for _, verr := range e.HeaderErrors {
			Writef(stdout, "%s\n", indent("header "+verr.String(), "    "))
		}
		for _, verr := range e.Errors {
			Writef(stdout, "%s\n", indent(verr.String(), "    "))
		}
	}

	counts := r.Counts()
	parts := make([]string, 0, len(conformance.Outcomes()))
	for _, o := range conformance.Outcomes() {
		if n := counts[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", Label(string(o)), n))
		}
	}
	Writef(stdout, "\n%s in %s. %s\n", cliutil.Count(len(r.Entries), "case"), r.Duration.Round(time.Millisecond), strings.Join(parts, ", "))
}
