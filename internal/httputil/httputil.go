// Package httputil provides HTTP status code and media type helpers shared by
// the document loader and the conformance checker.
package httputil

import (
	"mime"
	"strconv"
	"strings"

	"github.com/elnormous/contenttype"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")

	// DefaultStatusKey is the responses key matching any status code.
	DefaultStatusKey = "default"
)

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// Wildcard boundary characters for validation
const (
	minWildcardBoundary = '1'
	maxWildcardBoundary = '5'
)

// ValidateStatusCode checks if a responses key is valid.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == DefaultStatusKey {
		return true
	}

	if strings.HasPrefix(code, "x-") {
		return true
	}

	if len(code) == StatusCodeLength {
		if code[1] == WildcardChar && code[2] == WildcardChar {
			firstChar := code[0]
			if firstChar >= minWildcardBoundary && firstChar <= maxWildcardBoundary {
				return true
			}
		}

		if code[0] >= '0' && code[0] <= '9' &&
			code[1] >= '0' && code[1] <= '9' &&
			code[2] >= '0' && code[2] <= '9' {
			statusCode, err := strconv.Atoi(code)
			if err == nil && statusCode >= MinStatusCode && statusCode <= MaxStatusCode {
				return true
			}
		}
	}

	return false
}

// WildcardKey returns the range key covering status, e.g. "4XX" for 404.
func WildcardKey(status int) string {
	return strconv.Itoa(status/100) + "XX"
}

// MatchStatus picks the declared responses key that governs status: the
// exact code first, then its range (e.g. "2XX"), then "default".
func MatchStatus(declared []string, status int) (string, bool) {
	exact := strconv.Itoa(status)
	wildcard := WildcardKey(status)
	rangeKey := ""
	hasDefault := false
	for _, key := range declared {
		switch {
		case key == exact:
			return key, true
		case strings.EqualFold(key, wildcard):
			rangeKey = key
		case key == DefaultStatusKey:
			hasDefault = true
		}
	}
	if rangeKey != "" {
		return rangeKey, true
	}
	if hasDefault {
		return DefaultStatusKey, true
	}
	return "", false
}

// IsSuccessKey reports whether a responses key names a 2xx status.
func IsSuccessKey(key string) bool {
	return len(key) == StatusCodeLength && key[0] == '2'
}

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Handles the wildcard forms */* and type/*.
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}

	if strings.HasSuffix(mediaType, "/*") {
		parts := strings.Split(mediaType, "/")
		return len(parts) == 2 && parts[0] != "" && parts[0] != "*"
	}

	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}

// IsJSONMediaType reports whether mediaType carries JSON: application/json
// or any "+json" structured syntax suffix, parameters ignored.
func IsJSONMediaType(mediaType string) bool {
	mt := contenttype.NewMediaType(mediaType)
	return mt.Subtype == "json" || strings.HasSuffix(mt.Subtype, "+json")
}

// MatchMediaType picks the declared content key that best describes
// contentType. An exact type/subtype match wins over "type/*", which wins
// over "*/*". Parameters such as charset are ignored.
func MatchMediaType(declared []string, contentType string) (string, bool) {
	actual := contenttype.NewMediaType(contentType)
	if actual.Type == "" {
		return "", false
	}
	best, bestRank := "", -1
	for _, key := range declared {
		mt := contenttype.NewMediaType(key)
		if mt.Type == "" || !mt.Matches(actual) {
			continue
		}
		rank := 0
		switch {
		case mt.Type != "*" && mt.Subtype != "*":
			rank = 2
		case mt.Type != "*":
			rank = 1
		}
		if rank > bestRank {
			best, bestRank = key, rank
		}
	}
	return best, bestRank >= 0
}
