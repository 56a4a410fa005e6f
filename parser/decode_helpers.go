package parser

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// normalizeValue rewrites a decoded YAML/JSON tree so that every mapping is a
// map[string]any. YAML decodes mappings with non-string keys (such as the
// status code 200) as map[any]any, and unquoted timestamps as time.Time.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, sub := range val {
			val[k] = normalizeValue(sub)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[fmt.Sprint(k)] = normalizeValue(sub)
		}
		return out
	case []any:
		for i, sub := range val {
			val[i] = normalizeValue(sub)
		}
		return val
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 && val.Location() == time.UTC {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// extractExtensionsFromMap collects x-* keys from a map into an extension map.
// Returns nil if no extensions found (not an empty map).
func extractExtensionsFromMap(m map[string]any) map[string]any {
	var extra map[string]any
	for k, v := range m {
		if isExtensionKey(k) {
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[k] = v
		}
	}
	return extra
}

// mapGetString extracts a string from m[key], or "" when absent or not a string.
func mapGetString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// mapGetBool extracts a bool from m[key], or false when absent or not a bool.
func mapGetBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// mapGetMap extracts a nested mapping from m[key].
func mapGetMap(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

// mapGetStringSlice extracts a []string from m[key], handling the []any that
// yaml.Unmarshal / json.Unmarshal produce.
func mapGetStringSlice(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// toFloat64 converts any decoded numeric value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// mapGetFloat64Ptr extracts a *float64 from m[key].
// Handles both float64 (from JSON) and int (from YAML) numeric values.
func mapGetFloat64Ptr(m map[string]any, key string) *float64 {
	f, ok := toFloat64(m[key])
	if !ok {
		return nil
	}
	return &f
}

// mapGetIntPtr extracts a *int from m[key].
// Handles both float64 (from JSON) and int (from YAML) numeric values.
func mapGetIntPtr(m map[string]any, key string) *int {
	v, ok := m[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return nil
		}
		i := int(n)
		return &i
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case uint64:
		if n > math.MaxInt {
			return nil
		}
		i := int(n)
		return &i
	default:
		return nil
	}
}

// mapGetBoolPtr extracts a *bool from m[key].
func mapGetBoolPtr(m map[string]any, key string) *bool {
	v, ok := m[key]
	if !ok {
		return nil
	}
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

// mapGetStringMap extracts a map[string]string from m[key].
func mapGetStringMap(m map[string]any, key string) map[string]string {
	sub := mapGetMap(m, key)
	if sub == nil {
		return nil
	}
	result := make(map[string]string, len(sub))
	for k, val := range sub {
		if s, ok := val.(string); ok {
			result[k] = s
		}
	}
	return result
}

// decodeSecurityRequirements decodes a []any into []SecurityRequirement.
// An empty array yields an empty, non-nil slice.
func decodeSecurityRequirements(v any) []SecurityRequirement {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]SecurityRequirement, 0, len(arr))
	for _, item := range arr {
		if im, ok := item.(map[string]any); ok {
			sr := make(SecurityRequirement, len(im))
			for sk, sv := range im {
				scopes := []string{}
				if sarr, ok := sv.([]any); ok {
					for _, s := range sarr {
						if str, ok := s.(string); ok {
							scopes = append(scopes, str)
						}
					}
				}
				sr[sk] = scopes
			}
			result = append(result, sr)
		}
	}
	return result
}

// isExtensionKey returns true if the key starts with "x-".
func isExtensionKey(key string) bool {
	return strings.HasPrefix(key, "x-")
}
