package conformance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/erraggy/oasconform/internal/pathutil"
	"github.com/erraggy/oasconform/parser"
)

// buildRequest turns a case into an HTTP request against the base URL.
func (c *Checker) buildRequest(ctx context.Context, tc Case, security []parser.SecurityRequirement) (*http.Request, error) {
	pathValues := make(map[string]string)
	query := url.Values{}
	var cookies []*http.Cookie
	headers := make(http.Header)

	for _, p := range tc.Params {
		switch p.In {
		case parser.ParamInPath:
			pathValues[p.Name] = p.Value
		case parser.ParamInQuery:
			query.Add(p.Name, p.Value)
		case parser.ParamInHeader:
			headers.Set(p.Name, p.Value)
		case parser.ParamInCookie:
			cookies = append(cookies, &http.Cookie{Name: p.Name, Value: p.Value})
		}
	}

	path, missing := pathutil.ExpandTemplate(tc.Path, pathValues)
	if len(missing) > 0 {
		return nil, fmt.Errorf("conformance: no value for path parameters %v", missing)
	}
	target, err := url.Parse(c.cfg.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("conformance: invalid request URL: %w", err)
	}

	var body io.Reader = http.NoBody
	if tc.HasBody {
		body = bytes.NewReader(tc.Body)
	}
	req, err := http.NewRequestWithContext(ctx, tc.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("conformance: building request: %w", err)
	}

	for k, vs := range c.cfg.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range headers {
		req.Header[k] = vs
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	if tc.HasBody && tc.MediaType != "" {
		req.Header.Set("Content-Type", tc.MediaType)
	}
	req.Header.Set(RunHeader, c.runID)

	c.applySecurity(req, query, security)
	req.URL.RawQuery = mergeQuery(req.URL.Query(), query).Encode()
	return req, nil
}

func mergeQuery(base, extra url.Values) url.Values {
	for k, vs := range extra {
		for _, v := range vs {
			base.Add(k, v)
		}
	}
	return base
}

// applySecurity satisfies the first security requirement for which every
// scheme has a credential. An empty requirement means anonymous access.
func (c *Checker) applySecurity(req *http.Request, query url.Values, security []parser.SecurityRequirement) {
	for _, requirement := range security {
		if len(requirement) == 0 {
			return
		}
		schemes, ok := c.credentialsFor(requirement)
		if !ok {
			continue
		}
		for _, sc := range schemes {
			applyCredential(req, query, sc.scheme, sc.value)
		}
		return
	}
	if len(security) > 0 {
		c.cfg.logger.Debug("no credentials satisfy the security requirements", "path", req.URL.Path)
	}
}

type schemeCredential struct {
	scheme *parser.SecurityScheme
	value  string
}

func (c *Checker) credentialsFor(requirement parser.SecurityRequirement) ([]schemeCredential, bool) {
	var out []schemeCredential
	for _, name := range sortedKeys(requirement) {
		entry, ok := c.doc.Components.SecuritySchemes[name]
		if !ok {
			return nil, false
		}
		scheme, err := parser.Deref(c.doc.Components, entry)
		if err != nil {
			return nil, false
		}
		value, ok := c.cfg.credentials[name]
		if !ok && usesBearer(scheme) && c.cfg.bearer != "" {
			value, ok = c.cfg.bearer, true
		}
		if !ok {
			return nil, false
		}
		out = append(out, schemeCredential{scheme: scheme, value: value})
	}
	return out, true
}

func usesBearer(s *parser.SecurityScheme) bool {
	switch s.Type {
	case "http":
		return strings.EqualFold(s.Scheme, "bearer")
	case "oauth2", "openIdConnect":
		return true
	}
	return false
}

func applyCredential(req *http.Request, query url.Values, s *parser.SecurityScheme, value string) {
	switch {
	case s.Type == "apiKey":
		switch s.In {
		case parser.ParamInHeader:
			req.Header.Set(s.Name, value)
		case parser.ParamInQuery:
			query.Set(s.Name, value)
		case parser.ParamInCookie:
			req.AddCookie(&http.Cookie{Name: s.Name, Value: value})
		}
	case s.Type == "http" && strings.EqualFold(s.Scheme, "basic"):
		user, pass, _ := strings.Cut(value, ":")
		req.SetBasicAuth(user, pass)
	case usesBearer(s):
		req.Header.Set("Authorization", "Bearer "+value)
	}
}
