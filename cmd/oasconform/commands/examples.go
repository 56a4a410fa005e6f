package commands

import (
	"flag"
	"fmt"

	"github.com/erraggy/oasconform/internal/cliutil"
	"github.com/erraggy/oasconform/validator"
)

// ExamplesFlags contains flags for the examples command
type ExamplesFlags struct {
	Format           string
	FailuresOnly     bool
	FormatAssertions bool
	LogLevel         string
}

// ExampleEntry is one checked example in the structured output.
type ExampleEntry struct {
	Location string                      `json:"location" yaml:"location"`
	Valid    bool                        `json:"valid" yaml:"valid"`
	Errors   []validator.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ExamplesResult is the structured output of the examples command.
type ExamplesResult struct {
	Specification string         `json:"specification" yaml:"specification"`
	Total         int            `json:"total" yaml:"total"`
	Invalid       int            `json:"invalid" yaml:"invalid"`
	Examples      []ExampleEntry `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// SetupExamplesFlags creates and configures a FlagSet for the examples command.
func SetupExamplesFlags() (*flag.FlagSet, *ExamplesFlags) {
	fs := flag.NewFlagSet("examples", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &ExamplesFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.FailuresOnly, "failures-only", false, "only report invalid examples")
	fs.BoolVar(&flags.FormatAssertions, "format-assertions", LoadEnv().FormatAssertions, "treat format as an assertion")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error (default $OASCONFORM_LOG_LEVEL or warn)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasconform examples [flags] <spec|->\n\n")
		Writef(fs.Output(), "Validate every example declared in an OpenAPI 3.1 document against its schema.\n")
		Writef(fs.Output(), "Examples given only as externalValue are not fetched.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Every example is valid\n")
		Writef(fs.Output(), "  1    At least one example is invalid, or the command failed\n")
	}
	return fs, flags
}

// HandleExamples executes the examples command
func HandleExamples(args []string) error {
	fs, flags := SetupExamplesFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("examples command requires exactly one specification path, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	logger, err := newLogger(flags.LogLevel)
	if err != nil {
		return err
	}
	specPath := fs.Arg(0)
	doc, err := loadDocument(specPath, logger)
	if err != nil {
		return err
	}
	v, err := validator.New(doc.Document.Components,
		validator.WithLogger(logger),
		validator.WithFormatAssertions(flags.FormatAssertions),
	)
	if err != nil {
		return err
	}

	checked := v.ValidateExamples(doc.Document)
	result := ExamplesResult{Specification: FormatSpecPath(specPath), Total: len(checked)}
	for _, r := range checked {
		if !r.Valid() {
			result.Invalid++
		} else if flags.FailuresOnly {
			continue
		}
		result.Examples = append(result.Examples, ExampleEntry{Location: r.Location, Valid: r.Valid(), Errors: r.Errors})
	}

	if flags.Format != FormatText {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
	} else {
		for _, e := range result.Examples {
			Writef(stdout, "%s %s\n", cliutil.Mark(e.Valid), e.Location)
			for _, verr := range e.Errors {
				Writef(stdout, "%s\n", indent(verr.String(), "    "))
			}
		}
		Writef(stdout, "\n%s checked, %d invalid\n", cliutil.Count(result.Total, "example"), result.Invalid)
	}
	if result.Invalid > 0 {
		return ErrFailed
	}
	return nil
}
