// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasconform capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasconform"
)

const serverInstructions = `oasconform MCP server: validates JSON values and declared examples against the schemas of an OpenAPI 3.1 document, and resolves component references.

Documents are passed as a file path or as inline content. Remote documents are not fetched.

Configuration: defaults are read from OASCONFORM_* environment variables set in your MCP client config.

Key settings:
- OASCONFORM_CACHE_ENABLED (default: true): disable document caching entirely
- OASCONFORM_CACHE_FILE_TTL (default: 15m): cache TTL for file documents
- OASCONFORM_CACHE_CONTENT_TTL (default: 15m): cache TTL for inline documents
- OASCONFORM_RESULT_LIMIT (default: 100): default number of errors or examples returned
- OASCONFORM_FORMAT_ASSERTIONS (default: false): treat format as an assertion by default
- OASCONFORM_MAX_DEPTH (default: 256): maximum schema nesting followed during validation

Caching: loaded documents are cached per session. File entries use path+mtime as key, so edits are picked up on the next call.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasconform", Version: oasconform.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_value",
		Description: "Validate a JSON value against a schema of an OpenAPI 3.1 document. Select the schema with exactly one of schema (component name), ref (#/components/schemas/Name) or inline_schema (JSON or YAML text whose $refs resolve against the document). Pass the value as value, or as value_json text to keep exact numbers. Returns every failure with its JSON Pointer location, keyword and code; branch failures of anyOf/oneOf follow their aggregate with a larger depth. Use offset/limit to paginate.",
	}, handleValidateValue)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_examples",
		Description: "Validate every example declared on parameters, headers, request bodies and responses of an OpenAPI 3.1 document against the schema it illustrates. Returns one result per example with its document location. Use failures_only=true to list only invalid examples, and offset/limit to paginate.",
	}, handleValidateExamples)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_ref",
		Description: "Resolve a component reference (#/components/<kind>/<name>) in an OpenAPI 3.1 document, following reference chains. Returns the chain of pointers followed and the raw target component. Pass kind to require a component kind; with kind set, ref may be a bare component name. Failures report their kind: UnresolvedReference, MalformedReference, KindMismatch, CyclicReference or ReferenceDepthExceeded.",
	}, handleResolveRef)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths so they are not leaked to
// MCP clients in error messages.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
