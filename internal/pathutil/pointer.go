package pathutil

import (
	"fmt"
	"strings"
)

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapePointerToken escapes a single JSON Pointer reference token.
func EscapePointerToken(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	return pointerEscaper.Replace(token)
}

// UnescapePointerToken reverses EscapePointerToken. A '~' that is not
// followed by '0' or '1' is an error.
func UnescapePointerToken(token string) (string, error) {
	if !strings.Contains(token, "~") {
		return token, nil
	}
	for i := 0; i < len(token); i++ {
		if token[i] != '~' {
			continue
		}
		if i+1 >= len(token) || (token[i+1] != '0' && token[i+1] != '1') {
			return "", fmt.Errorf("pathutil: invalid escape sequence at offset %d in %q", i, token)
		}
	}
	return pointerUnescaper.Replace(token), nil
}
