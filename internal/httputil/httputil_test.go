package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected bool
	}{
		{"default keyword", "default", true},
		{"extension", "x-custom", true},
		{"wildcard 2XX", "2XX", true},
		{"wildcard 5XX", "5XX", true},
		{"wildcard out of range", "6XX", false},
		{"partial wildcard", "20X", false},
		{"lowercase wildcard", "2xx", false},
		{"valid 100", "100", true},
		{"valid 404", "404", true},
		{"valid 599", "599", true},
		{"below range", "099", false},
		{"above range", "600", false},
		{"too short", "20", false},
		{"too long", "2000", false},
		{"letters", "abc", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateStatusCode(tt.code))
		})
	}
}

func TestMatchStatus(t *testing.T) {
	tests := []struct {
		name     string
		declared []string
		status   int
		wantKey  string
		wantOK   bool
	}{
		{"exact", []string{"200", "2XX", "default"}, 200, "200", true},
		{"range before default", []string{"201", "2XX", "default"}, 204, "2XX", true},
		{"default fallback", []string{"200", "default"}, 500, "default", true},
		{"no match", []string{"200", "201"}, 404, "", false},
		{"empty declaration", nil, 200, "", false},
		{"range only", []string{"4XX"}, 418, "4XX", true},
		{"other range ignored", []string{"5XX"}, 404, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := MatchStatus(tt.declared, tt.status)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestWildcardKey(t *testing.T) {
	assert.Equal(t, "2XX", WildcardKey(204))
	assert.Equal(t, "4XX", WildcardKey(404))
	assert.True(t, IsSuccessKey("201"))
	assert.True(t, IsSuccessKey("2XX"))
	assert.False(t, IsSuccessKey("default"))
	assert.False(t, IsSuccessKey("404"))
}

func TestIsValidMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		expected  bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/vnd.api+json", true},
		{"text/*", true},
		{"*/*", true},
		{"*/json", true},
		{"/*", false},
		{"json", false},
		{"", false},
		{"not a media type", false},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidMediaType(tt.mediaType))
		})
	}
}

func TestIsJSONMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		expected  bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"text/plain", false},
		{"application/xml", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsJSONMediaType(tt.mediaType))
		})
	}
}

func TestMatchMediaType(t *testing.T) {
	tests := []struct {
		name        string
		declared    []string
		contentType string
		wantKey     string
		wantOK      bool
	}{
		{"exact", []string{"application/json", "text/plain"}, "application/json", "application/json", true},
		{"parameters ignored", []string{"application/json"}, "application/json; charset=utf-8", "application/json", true},
		{"exact beats range", []string{"*/*", "application/*", "application/json"}, "application/json", "application/json", true},
		{"range beats any", []string{"*/*", "application/*"}, "application/xml", "application/*", true},
		{"any", []string{"*/*"}, "image/png", "*/*", true},
		{"no match", []string{"application/json"}, "text/html", "", false},
		{"unparseable", []string{"application/json"}, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := MatchMediaType(tt.declared, tt.contentType)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
