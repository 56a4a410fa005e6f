package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerTokens(t *testing.T) {
	tests := []struct {
		raw     string
		escaped string
	}{
		{"Pet", "Pet"},
		{"a/b", "a~1b"},
		{"m~n", "m~0n"},
		{"~/", "~0~1"},
		{"application/json", "application~1json"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.escaped, EscapePointerToken(tt.raw))
			got, err := UnescapePointerToken(tt.escaped)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, got)
		})
	}
}

func TestUnescapePointerToken_Invalid(t *testing.T) {
	for _, token := range []string{"a~", "a~2b", "~x"} {
		_, err := UnescapePointerToken(token)
		assert.Error(t, err, token)
	}
}

func TestUnescapePointerToken_NoDoubleUnescape(t *testing.T) {
	// "~01" is the escaped form of "~1", not of "/".
	got, err := UnescapePointerToken("~01")
	require.NoError(t, err)
	assert.Equal(t, "~1", got)
}

func TestComponentRef(t *testing.T) {
	assert.Equal(t, "#/components/schemas/Pet", ComponentRef("schemas", "Pet"))
	assert.Equal(t, "#/components/responses/Not~1Found", ComponentRef("responses", "Not/Found"))
}
