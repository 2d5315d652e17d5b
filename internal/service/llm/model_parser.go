package llm

import (
	"fmt"
	"strings"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // Provider name: "openai", "anthropic", "scripted"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "gpt-4o-mini" → {Provider: "openai", Model: "gpt-4o-mini"}
//   - "claude-haiku-4-5" → {Provider: "anthropic", Model: "claude-haiku-4-5"}
//   - "openai/gpt-4o-mini" → {Provider: "openai", Model: "gpt-4o-mini"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	// Check if provider is explicitly specified (contains "/")
	if provider, model, ok := strings.Cut(modelStr, "/"); ok {
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: strings.ToLower(provider), Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	return &ModelInfo{
		Provider: provider,
		Model:    modelStr,
	}, nil
}

// ResolveModel is ParseModel with a fallback: a bare model name whose
// provider cannot be inferred is assigned to defaultProvider.
func ResolveModel(modelStr, defaultProvider string) (*ModelInfo, error) {
	info, err := ParseModel(modelStr)
	if err == nil {
		return info, nil
	}
	if modelStr == "" || strings.Contains(modelStr, "/") || defaultProvider == "" {
		return nil, err
	}
	return &ModelInfo{Provider: defaultProvider, Model: modelStr}, nil
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "claude-"):
		return "anthropic"
	case strings.HasPrefix(modelLower, "gpt-"),
		strings.HasPrefix(modelLower, "chatgpt-"),
		strings.HasPrefix(modelLower, "o1"),
		strings.HasPrefix(modelLower, "o3"),
		strings.HasPrefix(modelLower, "o4"):
		return "openai"
	case strings.HasPrefix(modelLower, "scripted"):
		return "scripted"
	default:
		return ""
	}
}
