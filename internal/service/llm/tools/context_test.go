package tools

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestUserIDFromContext(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		want    int64
		wantErr error
	}{
		{
			name:    "no config",
			ctx:     context.Background(),
			wantErr: ErrMissingUserID,
		},
		{
			name: "configurable int",
			ctx:  WithUserID(context.Background(), 42),
			want: 42,
		},
		{
			name: "configurable json number",
			ctx: WithInvocationConfig(context.Background(), InvocationConfig{
				Configurable: map[string]interface{}{"user_id": json.Number("7")},
			}),
			want: 7,
		},
		{
			name: "configurable numeric string",
			ctx: WithInvocationConfig(context.Background(), InvocationConfig{
				Configurable: map[string]interface{}{"user_id": "13"},
			}),
			want: 13,
		},
		{
			name: "metadata fallback",
			ctx: WithInvocationConfig(context.Background(), InvocationConfig{
				Metadata: map[string]interface{}{"user_id": float64(5)},
			}),
			want: 5,
		},
		{
			name: "configurable wins over metadata",
			ctx: WithInvocationConfig(context.Background(), InvocationConfig{
				Configurable: map[string]interface{}{"user_id": 1},
				Metadata:     map[string]interface{}{"user_id": 2},
			}),
			want: 1,
		},
		{
			name: "null user_id",
			ctx: WithInvocationConfig(context.Background(), InvocationConfig{
				Configurable: map[string]interface{}{"user_id": nil},
			}),
			wantErr: ErrMissingUserID,
		},
		{
			name: "non-numeric",
			ctx: WithInvocationConfig(context.Background(), InvocationConfig{
				Configurable: map[string]interface{}{"user_id": "alice"},
			}),
			wantErr: ErrInvalidUserID,
		},
		{
			name:    "negative",
			ctx:     WithUserID(context.Background(), -1),
			wantErr: ErrInvalidUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserIDFromContext(tt.ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("user id = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{int(3), 3, true},
		{int32(4), 4, true},
		{int64(5), 5, true},
		{float64(6), 6, true},
		{float64(6.5), 0, false},
		{math.Ldexp(1, 62), 1 << 62, true},
		{math.Ldexp(1, 63), 0, false},
		{float64(math.MinInt64), math.MinInt64, true},
		{math.Inf(1), 0, false},
		{json.Number("8"), 8, true},
		{json.Number("8.1"), 0, false},
		{" 9 ", 9, true},
		{"nine", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := toInt64(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("toInt64(%#v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLimitArg(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
		want  int
	}{
		{"absent", map[string]interface{}{}, 10},
		{"zero", map[string]interface{}{"limit": 0}, 10},
		{"negative", map[string]interface{}{"limit": -5}, 10},
		{"garbage", map[string]interface{}{"limit": "lots"}, 10},
		{"in range", map[string]interface{}{"limit": float64(25)}, 25},
		{"clamped", map[string]interface{}{"limit": 1000}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limitArg(tt.input, 10, 100); got != tt.want {
				t.Errorf("limitArg() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSchemaFor(t *testing.T) {
	schema := SchemaFor[updateDocumentArgs]()

	if schema["type"] != "object" {
		t.Fatalf("type = %v, want object", schema["type"])
	}
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("properties missing: %v", schema)
	}
	for _, key := range []string{"document_id", "title", "content"} {
		if _, ok := props[key]; !ok {
			t.Errorf("property %q missing", key)
		}
	}

	required, _ := schema["required"].([]interface{})
	if len(required) != 1 || required[0] != "document_id" {
		t.Errorf("required = %v, want [document_id]", schema["required"])
	}
}
