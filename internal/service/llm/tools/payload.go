package tools

// ErrorKind classifies a tool error payload for the agent layer.
type ErrorKind string

const (
	// KindIdentity means the caller identity is missing or invalid
	KindIdentity ErrorKind = "identity"
	// KindInvalidArgument means a tool argument failed validation
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindNotFound means the target is absent, not owned, or inactive
	KindNotFound ErrorKind = "not_found"
	// KindDownstream means the database, remote API or permission service failed
	KindDownstream ErrorKind = "downstream"
	// KindForbidden means the permission service denied the action
	KindForbidden ErrorKind = "forbidden"
)

// ErrorResult builds the uniform error payload {error, kind}.
func ErrorResult(kind ErrorKind, message string) map[string]interface{} {
	return map[string]interface{}{
		"error": message,
		"kind":  string(kind),
	}
}

// SuccessResult marks fields as a successful payload.
func SuccessResult(fields map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		result[k] = v
	}
	result["success"] = true
	return result
}

// IsErrorResult reports whether a tool result is an error payload.
func IsErrorResult(result interface{}) bool {
	m, ok := result.(map[string]interface{})
	if !ok {
		return false
	}
	_, hasErr := m["error"]
	return hasErr
}
