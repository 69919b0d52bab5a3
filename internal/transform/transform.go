// Package transform implements field reconciliation over raw upstream
// payloads. Upstream sources are inconsistent in casing and naming
// (StudentName vs studentName), so every normalized field is produced from
// an ordered list of candidate keys: the first defined, non-null value wins.
// New casing variants are additive entries in a candidate list, never new
// branching logic.
package transform

import (
	"strconv"
)

// Value returns the first defined, non-null value among the candidate keys.
func Value(raw map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String resolves the candidates to a string. Numeric values are formatted
// without a trailing fraction because upstream sometimes serializes roll
// numbers as JSON numbers. Returns "" when no candidate matches; callers
// rely on omitempty to keep unmapped fields absent.
func String(raw map[string]any, keys ...string) string {
	v, ok := Value(raw, keys...)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Bool resolves the candidates to a bool, returning fallback when no
// candidate matches. Upstream flags arrive as JSON bools or "true"/"false"
// strings.
func Bool(raw map[string]any, fallback bool, keys ...string) bool {
	v, ok := Value(raw, keys...)
	if !ok {
		return fallback
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// Object resolves the candidates to a nested JSON object, or nil when
// absent so transformers can leave nested structures undefined rather than
// partially filled.
func Object(raw map[string]any, keys ...string) map[string]any {
	v, ok := Value(raw, keys...)
	if !ok {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

// Array resolves the candidates to a JSON array, or nil when absent.
func Array(raw map[string]any, keys ...string) []any {
	v, ok := Value(raw, keys...)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	return arr
}
