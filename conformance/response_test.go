package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oasconform/parser"
)

func TestCoerceHeader(t *testing.T) {
	integer := &parser.Schema{Type: []string{parser.TypeInteger}}
	tests := []struct {
		name   string
		raw    string
		schema *parser.Schema
		want   any
	}{
		{"no schema", "abc", nil, "abc"},
		{"integer", " 42 ", integer, int64(42)},
		{"bad integer stays string", "4.2", integer, "4.2"},
		{"number", "4.5", &parser.Schema{Type: []string{parser.TypeNumber}}, 4.5},
		{"boolean", "true", &parser.Schema{Type: []string{parser.TypeBoolean}}, true},
		{"nullable type list", "7", &parser.Schema{Type: []string{parser.TypeNull, parser.TypeInteger}}, int64(7)},
		{
			"array of integers", "1, 2,x",
			&parser.Schema{Type: []string{parser.TypeArray}, Items: &parser.SchemaOrRef{Value: integer}},
			[]any{int64(1), int64(2), "x"},
		},
		{
			"object pairs", "a,1,b,x",
			&parser.Schema{Type: []string{parser.TypeObject}, Properties: map[string]parser.SchemaOrRef{"a": parser.Inline(integer)}},
			map[string]any{"a": int64(1), "b": "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceHeader(tt.raw, tt.schema))
		})
	}
}

func TestStatusExpected(t *testing.T) {
	assert.True(t, statusExpected(nil, "500"))
	assert.True(t, statusExpected([]string{"2XX"}, "2xx"))
	assert.False(t, statusExpected([]string{"200"}, "default"))
}
