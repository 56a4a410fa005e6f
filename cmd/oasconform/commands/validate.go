package commands

import (
	"flag"
	"fmt"

	"github.com/erraggy/oasconform/internal/cliutil"
	"github.com/erraggy/oasconform/internal/options"
	"github.com/erraggy/oasconform/parser"
	"github.com/erraggy/oasconform/validator"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Schema           string
	Ref              string
	Format           string
	FormatAssertions bool
	Quiet            bool
	LogLevel         string
}

// ValidateResult is the structured output of the validate command.
type ValidateResult struct {
	Specification string                      `json:"specification" yaml:"specification"`
	Schema        string                      `json:"schema" yaml:"schema"`
	Valid         bool                        `json:"valid" yaml:"valid"`
	ErrorCount    int                         `json:"errorCount" yaml:"errorCount"`
	Errors        []validator.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &ValidateFlags{}

	fs.StringVar(&flags.Schema, "schema", "", "name of the component schema to validate against")
	fs.StringVar(&flags.Ref, "ref", "", "schema reference to validate against, e.g. '#/components/schemas/Pet'")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.FormatAssertions, "format-assertions", LoadEnv().FormatAssertions, "treat format as an assertion (date, date-time, email, uuid, uri, ipv4, ipv6)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only set the exit code")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only set the exit code")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error (default $OASCONFORM_LOG_LEVEL or warn)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasconform validate (--schema Name | --ref '#/components/schemas/X') [flags] <spec> <value.json|->\n\n")
		Writef(fs.Output(), "Validate a JSON or YAML value against a schema of an OpenAPI 3.1 document.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasconform validate --schema Pet openapi.yaml pet.json\n")
		Writef(fs.Output(), "  curl -s localhost:8080/pets/1 | oasconform validate --schema Pet openapi.yaml -\n")
		Writef(fs.Output(), "  oasconform validate --ref '#/components/schemas/Pet' --format json openapi.yaml pet.json | jq '.valid'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    The value is valid\n")
		Writef(fs.Output(), "  1    The value is invalid, or the command failed\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("validate command requires a specification and a value file (or '-' for stdin)")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if err := options.ValidateSingleInputSource(
		"one of --schema or --ref is required",
		"--schema and --ref are mutually exclusive",
		flags.Schema != "", flags.Ref != "",
	); err != nil {
		return err
	}
	specPath, valuePath := fs.Arg(0), fs.Arg(1)
	if specPath == StdinFilePath && valuePath == StdinFilePath {
		return fmt.Errorf("the specification and the value cannot both be read from stdin")
	}

	logger, err := newLogger(flags.LogLevel)
	if err != nil {
		return err
	}
	doc, err := loadDocument(specPath, logger)
	if err != nil {
		return err
	}
	raw, err := readInput(valuePath)
	if err != nil {
		return fmt.Errorf("reading value: %w", err)
	}
	value, err := parser.ParseValue(raw)
	if err != nil {
		return fmt.Errorf("reading value: %w", err)
	}

	ref := flags.Ref
	if flags.Schema != "" {
		ref = parser.FormatRef(parser.KindSchemas, flags.Schema)
	}
	v, err := validator.New(doc.Document.Components,
		validator.WithLogger(logger),
		validator.WithFormatAssertions(flags.FormatAssertions),
	)
	if err != nil {
		return err
	}
	errs := v.Validate(value, parser.RefTo[parser.Schema](ref))

	result := ValidateResult{
		Specification: FormatSpecPath(specPath),
		Schema:        ref,
		Valid:         len(errs) == 0,
		ErrorCount:    len(errs),
		Errors:        errs,
	}
	switch {
	case flags.Quiet:
	case flags.Format != FormatText:
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
	default:
		writeValidateText(result)
	}
	if !result.Valid {
		return ErrFailed
	}
	return nil
}

func writeValidateText(r ValidateResult) {
	if r.Valid {
		Writef(stdout, "%s %s: value is valid against %s\n", cliutil.MarkPass, r.Specification, r.Schema)
		return
	}
	Writef(stdout, "%s %s: value is invalid against %s (%s)\n", cliutil.MarkFail, r.Specification, r.Schema, cliutil.Count(r.ErrorCount, "error"))
	for _, e := range r.Errors {
		Writef(stdout, "%s\n", indent(e.String(), "  "))
	}
}
