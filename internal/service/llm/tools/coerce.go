package tools

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// toInt64 coerces a decoded JSON value (or a Go integer) to int64.
// Floats must be integral; strings must parse as base-10 integers.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// positiveID reads a required positive integer id from input.
func positiveID(input map[string]interface{}, key string) (int64, bool) {
	id, ok := toInt64(input[key])
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// limitArg reads an optional limit. Missing, malformed or non-positive values
// give def; values above max are clamped.
func limitArg(input map[string]interface{}, def, max int) int {
	raw, exists := input["limit"]
	if !exists {
		return def
	}
	n, ok := toInt64(raw)
	if !ok || n <= 0 {
		return def
	}
	if n > int64(max) {
		return max
	}
	return int(n)
}

// stringArg reads an optional string argument. present is false when the key
// is absent, null, or not a string.
func stringArg(input map[string]interface{}, key string) (value string, present bool) {
	s, ok := input[key].(string)
	return s, ok
}
