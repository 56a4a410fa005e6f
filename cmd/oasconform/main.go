package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/oasconform"
	"github.com/erraggy/oasconform/cmd/oasconform/commands"
)

var handlers = map[string]func([]string) error{
	"validate": commands.HandleValidate,
	"examples": commands.HandleExamples,
	"resolve":  commands.HandleResolve,
	"check":    commands.HandleCheck,
	"mcp":      commands.HandleMCP,
}

// commandNames lists every command, in usage order, for suggestions.
var commandNames = []string{"validate", "examples", "resolve", "check", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command := args[0]
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasconform v%s\n", oasconform.Version())
		fmt.Println(oasconform.BuildInfo())
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	}

	handle, ok := handlers[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		return 1
	}
	if err := handle(args[1:]); err != nil {
		if !errors.Is(err, commands.ErrFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// suggestCommand returns the closest command within edit distance 2, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`oasconform - OpenAPI 3.1 schema validation and API conformance checking

Usage:
  oasconform <command> [options]

Commands:
  validate    Validate a JSON or YAML value against a schema of a document
  examples    Validate every example declared in a document
  resolve     Resolve a component reference and print its target
  check       Check a running API against the document using its examples
  mcp         Serve the validation tools over the Model Context Protocol
  version     Show version information
  help        Show this help message

Examples:
  oasconform validate --schema Pet openapi.yaml pet.json
  oasconform examples openapi.yaml
  oasconform resolve openapi.yaml '#/components/schemas/Pet'
  oasconform check --base-url http://localhost:8080 openapi.yaml

Environment:
  OASCONFORM_BASE_URL, OASCONFORM_TIMEOUT, OASCONFORM_CONCURRENCY,
  OASCONFORM_RATE_LIMIT, OASCONFORM_BEARER_TOKEN and OASCONFORM_LOG_LEVEL
  set defaults for the check command.

Run 'oasconform <command> --help' for more information on a command.`)
}
