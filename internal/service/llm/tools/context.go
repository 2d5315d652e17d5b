package tools

import (
	"context"
	"errors"
)

// InvocationConfig is the per-call configuration an agent run carries.
// The caller identity lives in Configurable["user_id"]; it never comes from
// tool arguments.
type InvocationConfig struct {
	Configurable map[string]interface{}
	Metadata     map[string]interface{}
}

type invocationContextKey struct{}

// Identity errors
var (
	ErrMissingUserID = errors.New("user_id missing in invocation config")
	ErrInvalidUserID = errors.New("user_id must be a positive integer")
)

// WithInvocationConfig attaches cfg to ctx. Sub-agents inherit it through ctx.
func WithInvocationConfig(ctx context.Context, cfg InvocationConfig) context.Context {
	return context.WithValue(ctx, invocationContextKey{}, cfg)
}

// WithUserID is shorthand for an invocation config carrying only user_id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return WithInvocationConfig(ctx, InvocationConfig{
		Configurable: map[string]interface{}{"user_id": userID},
	})
}

// InvocationConfigFromContext returns the invocation config stored in ctx.
func InvocationConfigFromContext(ctx context.Context) (InvocationConfig, bool) {
	cfg, ok := ctx.Value(invocationContextKey{}).(InvocationConfig)
	return cfg, ok
}

// UserIDFromContext extracts the caller's user id. Configurable is checked
// first, then Metadata. Numeric strings are accepted.
func UserIDFromContext(ctx context.Context) (int64, error) {
	cfg, ok := InvocationConfigFromContext(ctx)
	if !ok {
		return 0, ErrMissingUserID
	}

	raw, ok := cfg.Configurable["user_id"]
	if !ok || raw == nil {
		raw, ok = cfg.Metadata["user_id"]
	}
	if !ok || raw == nil {
		return 0, ErrMissingUserID
	}

	id, ok := toInt64(raw)
	if !ok || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}
