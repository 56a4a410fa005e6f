package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/oasconform/internal/cliutil"
	"github.com/erraggy/oasconform/oaserrors"
	"github.com/erraggy/oasconform/parser"
)

// ResolveFlags contains flags for the resolve command
type ResolveFlags struct {
	Kind     string
	Format   string
	LogLevel string
}

// ResolveResult is the structured output of the resolve command.
type ResolveResult struct {
	Ref       string   `json:"ref" yaml:"ref"`
	Kind      string   `json:"kind" yaml:"kind"`
	Resolved  bool     `json:"resolved" yaml:"resolved"`
	Chain     []string `json:"chain,omitempty" yaml:"chain,omitempty"`
	Value     any      `json:"value,omitempty" yaml:"value,omitempty"`
	ErrorKind string   `json:"errorKind,omitempty" yaml:"errorKind,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &ResolveFlags{}

	fs.StringVar(&flags.Kind, "kind", "", "required component kind; with --kind the reference may be a bare name")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error (default $OASCONFORM_LOG_LEVEL or warn)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasconform resolve [flags] <spec|-> <ref>\n\n")
		Writef(fs.Output(), "Resolve a component reference, following reference chains.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasconform resolve openapi.yaml '#/components/schemas/Pet'\n")
		Writef(fs.Output(), "  oasconform resolve --kind parameters openapi.yaml PetId\n")
	}
	return fs, flags
}

// HandleResolve executes the resolve command
func HandleResolve(args []string) error {
	fs, flags := SetupResolveFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("resolve command requires a specification and a reference")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	ref := fs.Arg(1)
	var kind parser.Kind
	if flags.Kind != "" {
		k, ok := parser.ParseKind(flags.Kind)
		if !ok {
			return fmt.Errorf("invalid kind %q. Valid kinds: %v", flags.Kind, parser.Kinds())
		}
		kind = k
		if !strings.HasPrefix(ref, "#") {
			ref = parser.FormatRef(kind, ref)
		}
	}

	logger, err := newLogger(flags.LogLevel)
	if err != nil {
		return err
	}
	doc, err := loadDocument(fs.Arg(0), logger)
	if err != nil {
		return err
	}

	result := resolve(doc, ref, kind)
	if flags.Format != FormatText {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
	} else {
		writeResolveText(result)
	}
	if !result.Resolved {
		return ErrFailed
	}
	return nil
}

func resolve(doc *parser.ParseResult, ref string, kind parser.Kind) ResolveResult {
	result := ResolveResult{Ref: ref, Kind: string(kind)}
	fail := func(err error) ResolveResult {
		var refErr *oaserrors.ReferenceError
		if errors.As(err, &refErr) {
			result.ErrorKind = refErr.Kind.String()
			result.Chain = refErr.Chain
		}
		result.Error = err.Error()
		return result
	}

	if kind == "" {
		k, _, err := parser.ParseRef(ref)
		if err != nil {
			return fail(err)
		}
		kind = k
		result.Kind = string(k)
	}

	comps := doc.Document.Components
	rc := parser.NewResolutionContext(comps.MaxRefDepth())
	if _, err := comps.ResolveWith(rc, ref, kind); err != nil {
		return fail(err)
	}
	result.Resolved = true
	result.Chain = rc.Chain()

	k, name, _ := parser.ParseRef(result.Chain[len(result.Chain)-1])
	components, _ := doc.Data["components"].(map[string]any)
	byKind, _ := components[string(k)].(map[string]any)
	result.Value = byKind[name]
	return result
}

func writeResolveText(r ResolveResult) {
	if !r.Resolved {
		Writef(stdout, "%s %s: %s\n", cliutil.MarkFail, r.ErrorKind, r.Error)
		return
	}
	Writef(stdout, "%s\n", strings.Join(r.Chain, " -> "))
	out, err := yamlText(r.Value)
	if err != nil {
		Writef(stderr, "rendering component: %v\n", err)
		return
	}
	Writef(stdout, "%s", out)
}
