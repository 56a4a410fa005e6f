package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasconform/oaserrors"
)

// Parser loads OpenAPI 3.1 documents.
type Parser struct {
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default)
	Logger Logger
	// MaxRefDepth bounds reference chains resolved through the loaded
	// registry. Default: DefaultMaxRefDepth
	MaxRefDepth int
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source OpenAPI specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains a loaded document and metadata about the load.
//
// The Document and its Components registry are immutable: nothing in this
// module modifies them after ParseWithOptions returns, and callers must not
// either. A changed specification requires a new load.
type ParseResult struct {
	// SourcePath is the path the document was read from. For in-memory
	// input it is "ParseBytes.yaml", "ParseReader.json" and so on.
	SourcePath string
	// SourceFormat is the format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the declared openapi version string, e.g. "3.1.0"
	Version string
	// Data contains the raw normalized tree
	Data map[string]any
	// Document is the typed document model
	Document *Document
	// Warnings contains non-fatal issues found while loading: invalid
	// patterns, malformed status codes, dangling references and so on
	Warnings []string
	// Stats summarizes the document
	Stats DocumentStats
	// LoadTime is the time taken to read the source
	LoadTime time.Duration
	// SourceSize is the size of the source in bytes
	SourceSize int64
}

// Parse reads and loads the document at specPath.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := os.ReadFile(specPath)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	res, err := p.parseBytes(data, specPath)
	if err != nil {
		return nil, err
	}
	res.SourcePath = specPath
	res.LoadTime = loadTime
	if f := detectFormatFromPath(specPath); f != SourceFormatUnknown {
		res.SourceFormat = f
	}
	return res, nil
}

// ParseReader loads a document from r.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	res, err := p.parseBytes(data, "ParseReader")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// ParseBytes loads a document from data.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parseBytes(data, "ParseBytes")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + string(res.SourceFormat)
	return res, nil
}

func (p *Parser) parseBytes(data []byte, source string) (*ParseResult, error) {
	format := detectFormatFromContent(data)
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "failed to parse " + strings.ToUpper(string(format)), Cause: err}
	}
	if raw == nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "document is empty"}
	}

	version, err := detectVersion(raw)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: source, Cause: err}
	}

	result := &ParseResult{
		SourceFormat: format,
		Version:      version,
		Data:         raw,
		SourceSize:   int64(len(data)),
	}
	if strings.HasPrefix(version, "3.0.") {
		result.Warnings = append(result.Warnings, fmt.Sprintf("openapi %s is loaded with 3.1 semantics", version))
	}

	d := newDecoder()
	doc := d.document(raw)
	doc.Components.maxRefDepth = p.MaxRefDepth
	result.Document = doc
	result.Warnings = append(result.Warnings, d.warnings...)
	result.Warnings = append(result.Warnings, checkReferences(doc)...)
	result.Stats = GetDocumentStats(doc)

	log := p.log().With("source", source)
	log.Debug("loaded document",
		"version", version,
		"format", string(format),
		"paths", result.Stats.PathCount,
		"operations", result.Stats.OperationCount,
		"components", result.Stats.ComponentCount)
	for _, w := range result.Warnings {
		log.Warn("load warning", "detail", w)
	}
	return result, nil
}

// decodeRaw decodes the text into a normalized tree. JSON input takes a fast
// path that skips the YAML AST.
func decodeRaw(data []byte, format SourceFormat) (map[string]any, error) {
	var raw map[string]any
	if format == SourceFormatJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return normalizeValue(raw).(map[string]any), nil
}

// detectVersion reads and checks the openapi field of the raw tree.
func detectVersion(data map[string]any) (string, error) {
	if _, ok := data["swagger"]; ok {
		return "", fmt.Errorf("OpenAPI 2.0 (swagger) documents are not supported")
	}
	v, ok := data["openapi"].(string)
	if !ok {
		return "", fmt.Errorf("unable to detect OpenAPI version: document must contain 'openapi: \"3.1.x\"' at the root level")
	}
	if !strings.HasPrefix(v, "3.1.") && !strings.HasPrefix(v, "3.0.") {
		return "", fmt.Errorf("unsupported OpenAPI version: %s (only 3.1.x and 3.0.x are supported)", v)
	}
	return v, nil
}

// detectFormatFromPath detects the format from a file path extension
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

// detectFormatFromContent sniffs the first non-whitespace byte.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// ParseSchema loads a standalone schema from YAML or JSON text. References
// in it are resolved against whatever registry it is later validated with.
// The returned warnings describe problems such as invalid patterns.
func ParseSchema(data []byte) (SchemaOrRef, []string, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return SchemaOrRef{}, nil, &oaserrors.ParseError{Path: "schema", Message: "failed to parse schema", Cause: err}
	}
	d := newDecoder()
	s, ok := d.schemaOrRef(normalizeValue(raw))
	if !ok {
		return SchemaOrRef{}, d.warnings, &oaserrors.ParseError{Path: "schema", Message: "schema must be an object or a boolean"}
	}
	return s, d.warnings, nil
}

// ParseValue decodes a YAML or JSON value into the generic value model used
// by the validator (nil, bool, numbers, string, []any, map[string]any). JSON
// numbers are kept as json.Number so large integers stay exact.
func ParseValue(data []byte) (any, error) {
	var v any
	if detectFormatFromContent(data) == SourceFormatJSON || bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err == nil {
			var trailing any
			if dec.Decode(&trailing) == io.EOF {
				return v, nil
			}
		}
		v = nil
	}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &oaserrors.ParseError{Path: "value", Message: "failed to parse value", Cause: err}
	}
	return normalizeValue(v), nil
}
