package parser

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/erraggy/oasconform/internal/httputil"
)

// Document is a loaded OpenAPI 3.1 document. It is read-only after load.
type Document struct {
	OpenAPI           string
	Info              *Info
	JSONSchemaDialect string
	Servers           []*Server
	Paths             Paths
	Webhooks          map[string]*PathItem
	// Components is never nil on a loaded document.
	Components   *Components
	Security     []SecurityRequirement
	Tags         []*Tag
	ExternalDocs *ExternalDocs
	Extensions   map[string]any
}

// Info provides metadata about the API.
type Info struct {
	Title          string
	Summary        string
	Description    string
	TermsOfService string
	Contact        *Contact
	License        *License
	Version        string
	Extensions     map[string]any
}

// Contact information for the exposed API.
type Contact struct {
	Name  string
	URL   string
	Email string
}

// License information for the exposed API.
type License struct {
	Name       string
	Identifier string
	URL        string
}

// Server describes a server hosting the API.
type Server struct {
	URL         string
	Description string
	Variables   map[string]*ServerVariable
	Extensions  map[string]any
}

// ServerVariable is a substitution variable of a server URL template.
type ServerVariable struct {
	Enum        []string
	Default     string
	Description string
}

// ExpandedURL returns the server URL with every variable replaced by its default.
func (s *Server) ExpandedURL() string {
	u := s.URL
	for name, v := range s.Variables {
		if v == nil {
			continue
		}
		u = strings.ReplaceAll(u, "{"+name+"}", v.Default)
	}
	return u
}

// Tag adds metadata to a tag used by operations.
type Tag struct {
	Name         string
	Description  string
	ExternalDocs *ExternalDocs
}

// ExternalDocs references external documentation.
type ExternalDocs struct {
	Description string
	URL         string
}

// Paths maps a path template to its PathItem.
type Paths map[string]*PathItem

// PathItem describes the operations available on a single path.
type PathItem struct {
	Summary     string
	Description string
	Get         *Operation
	Put         *Operation
	Post        *Operation
	Delete      *Operation
	Options     *Operation
	Head        *Operation
	Patch       *Operation
	Trace       *Operation
	Servers     []*Server
	Parameters  []ParameterOrRef
	Extensions  map[string]any
}

// methodOrder is the canonical order used when listing operations.
var methodOrder = []string{
	httputil.MethodGet,
	httputil.MethodPut,
	httputil.MethodPost,
	httputil.MethodDelete,
	httputil.MethodOptions,
	httputil.MethodHead,
	httputil.MethodPatch,
	httputil.MethodTrace,
}

// Methods returns the lowercase HTTP methods a path item can declare, in the
// order operations are listed.
func Methods() []string {
	return slices.Clone(methodOrder)
}

// Operation returns the operation for a lowercase or uppercase HTTP method.
func (p *PathItem) Operation(method string) *Operation {
	if p == nil {
		return nil
	}
	switch strings.ToLower(method) {
	case httputil.MethodGet:
		return p.Get
	case httputil.MethodPut:
		return p.Put
	case httputil.MethodPost:
		return p.Post
	case httputil.MethodDelete:
		return p.Delete
	case httputil.MethodOptions:
		return p.Options
	case httputil.MethodHead:
		return p.Head
	case httputil.MethodPatch:
		return p.Patch
	case httputil.MethodTrace:
		return p.Trace
	}
	return nil
}

func (p *PathItem) setOperation(method string, op *Operation) {
	switch method {
	case httputil.MethodGet:
		p.Get = op
	case httputil.MethodPut:
		p.Put = op
	case httputil.MethodPost:
		p.Post = op
	case httputil.MethodDelete:
		p.Delete = op
	case httputil.MethodOptions:
		p.Options = op
	case httputil.MethodHead:
		p.Head = op
	case httputil.MethodPatch:
		p.Patch = op
	case httputil.MethodTrace:
		p.Trace = op
	}
}

// Operation describes a single API operation on a path.
type Operation struct {
	Tags         []string
	Summary      string
	Description  string
	ExternalDocs *ExternalDocs
	OperationID  string
	Parameters   []ParameterOrRef
	RequestBody  *RequestBodyOrRef
	Responses    *Responses
	Callbacks    map[string]CallbackOrRef
	Deprecated   bool
	// Security is nil when the operation inherits the document requirements.
	// An empty, non-nil slice removes them.
	Security   []SecurityRequirement
	Servers    []*Server
	Extensions map[string]any
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name            string
	In              string
	Description     string
	Required        bool
	Deprecated      bool
	AllowEmptyValue bool
	Style           string
	Explode         *bool
	Schema          *SchemaOrRef
	Example         any
	HasExample      bool
	Examples        map[string]ExampleOrRef
	Content         map[string]*MediaType
	Extensions      map[string]any
}

// Parameter locations.
const (
	ParamInQuery  = "query"
	ParamInHeader = "header"
	ParamInPath   = "path"
	ParamInCookie = "cookie"
)

// RequestBody describes a single request body.
type RequestBody struct {
	Description string
	Content     map[string]*MediaType
	Required    bool
	Extensions  map[string]any
}

// MediaType provides the schema and examples for one media type.
type MediaType struct {
	Schema     *SchemaOrRef
	Example    any
	HasExample bool
	Examples   map[string]ExampleOrRef
	Extensions map[string]any
}

// Responses maps status codes to the expected responses of an operation.
type Responses struct {
	Default *ResponseOrRef
	// Codes is keyed by status code or range, e.g. "200" or "4XX".
	Codes      map[string]ResponseOrRef
	Extensions map[string]any
}

// Response describes a single response of an operation.
type Response struct {
	Description string
	Headers     map[string]HeaderOrRef
	Content     map[string]*MediaType
	Links       map[string]LinkOrRef
	Extensions  map[string]any
}

// Header describes a single response header.
type Header struct {
	Description string
	Required    bool
	Deprecated  bool
	Style       string
	Explode     *bool
	Schema      *SchemaOrRef
	Example     any
	HasExample  bool
	Examples    map[string]ExampleOrRef
	Content     map[string]*MediaType
	Extensions  map[string]any
}

// Example is a named example value.
type Example struct {
	Summary       string
	Description   string
	Value         any
	HasValue      bool
	ExternalValue string
	Extensions    map[string]any
}

// Link represents a possible design-time link for a response.
type Link struct {
	OperationRef string
	OperationID  string
	Parameters   map[string]any
	RequestBody  any
	Description  string
	Server       *Server
	Extensions   map[string]any
}

// Callback maps runtime expressions to the path items they call back.
type Callback map[string]*PathItem

// SecurityScheme defines a security scheme usable by operations.
type SecurityScheme struct {
	Type             string
	Description      string
	Name             string
	In               string
	Scheme           string
	BearerFormat     string
	Flows            *OAuthFlows
	OpenIDConnectURL string
	Extensions       map[string]any
}

// OAuthFlows lists the supported OAuth flows.
type OAuthFlows struct {
	Implicit          *OAuthFlow
	Password          *OAuthFlow
	ClientCredentials *OAuthFlow
	AuthorizationCode *OAuthFlow
}

// OAuthFlow is the configuration of a single OAuth flow.
type OAuthFlow struct {
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           map[string]string
}

// SecurityRequirement maps security scheme names to required scopes.
type SecurityRequirement map[string][]string

// OperationEntry is one operation of a document with its location.
type OperationEntry struct {
	Path      string
	Method    string
	Operation *Operation
	PathItem  *PathItem
}

// ID returns the operationId, or "METHOD path" when none is declared.
func (e OperationEntry) ID() string {
	if e.Operation != nil && e.Operation.OperationID != "" {
		return e.Operation.OperationID
	}
	return strings.ToUpper(e.Method) + " " + e.Path
}

// Operations lists every operation of d, sorted by path and then by the
// canonical method order (get, put, post, delete, options, head, patch, trace).
func (d *Document) Operations() []OperationEntry {
	if d == nil {
		return nil
	}
	paths := make([]string, 0, len(d.Paths))
	for p := range d.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var entries []OperationEntry
	for _, p := range paths {
		item := d.Paths[p]
		if item == nil {
			continue
		}
		for _, m := range methodOrder {
			if op := item.Operation(m); op != nil {
				entries = append(entries, OperationEntry{Path: p, Method: m, Operation: op, PathItem: item})
			}
		}
	}
	return entries
}

// Operation finds the operation declared for method on the exact path template.
func (d *Document) Operation(method, path string) (OperationEntry, bool) {
	if d == nil {
		return OperationEntry{}, false
	}
	item := d.Paths[path]
	op := item.Operation(method)
	if op == nil {
		return OperationEntry{}, false
	}
	return OperationEntry{Path: path, Method: strings.ToLower(method), Operation: op, PathItem: item}, true
}

// OperationByID finds the operation with the given operationId.
func (d *Document) OperationByID(id string) (OperationEntry, bool) {
	for _, e := range d.Operations() {
		if e.Operation.OperationID == id {
			return e, true
		}
	}
	return OperationEntry{}, false
}

// Parameters returns the effective parameters of an operation: path-level
// parameters merged with operation-level ones, where an operation parameter
// overrides a path parameter with the same location and name. References
// are resolved against the document components.
func (d *Document) Parameters(e OperationEntry) ([]*Parameter, error) {
	var out []*Parameter
	index := make(map[string]int)
	add := func(list []ParameterOrRef) error {
		for _, pr := range list {
			p, err := Deref(d.Components, pr)
			if err != nil {
				return fmt.Errorf("parser: parameters of %s: %w", e.ID(), err)
			}
			key := p.In + ":" + p.Name
			if i, ok := index[key]; ok {
				out[i] = p
				continue
			}
			index[key] = len(out)
			out = append(out, p)
		}
		return nil
	}
	if e.PathItem != nil {
		if err := add(e.PathItem.Parameters); err != nil {
			return nil, err
		}
	}
	if e.Operation != nil {
		if err := add(e.Operation.Parameters); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SecurityFor returns the security requirements that apply to an operation.
func (d *Document) SecurityFor(op *Operation) []SecurityRequirement {
	if op != nil && op.Security != nil {
		return op.Security
	}
	return d.Security
}

// StatusCodes returns the declared status keys of r, sorted, with "default" last.
func (r *Responses) StatusCodes() []string {
	if r == nil {
		return nil
	}
	codes := sortedKeys(r.Codes)
	if r.Default != nil {
		codes = append(codes, "default")
	}
	return codes
}
