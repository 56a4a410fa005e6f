package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/erraggy/oasconform/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasconform mcp\n\n")
		Writef(fs.Output(), "Serve the validate_value, validate_examples and resolve_ref tools over the\n")
		Writef(fs.Output(), "Model Context Protocol on stdin/stdout. Configure defaults with OASCONFORM_*\n")
		Writef(fs.Output(), "environment variables in the MCP client.\n")
	}
	return fs
}

// HandleMCP runs the MCP server until the client disconnects or the process
// is interrupted.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return mcpserver.Run(ctx)
}
