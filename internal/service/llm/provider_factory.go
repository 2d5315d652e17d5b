package llm

import (
	"fmt"

	"cinedesk/internal/config"
	domainllm "cinedesk/internal/domain/services/llm"
	"cinedesk/internal/service/llm/providers/anthropic"
	"cinedesk/internal/service/llm/providers/openai"
)

// ProviderFactory creates LLM provider instances from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "openai" - GPT models via the Chat Completions API
//   - "anthropic" - Claude models via the Anthropic API
//
// The scripted provider is not built here; tests and the CLI construct it directly.
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.LLMProvider, error) {
	switch providerName {
	case "openai":
		return f.createOpenAIProvider()

	case "anthropic":
		return f.createAnthropicProvider()

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// createOpenAIProvider creates an OpenAI provider instance
func (f *ProviderFactory) createOpenAIProvider() (domainllm.LLMProvider, error) {
	if f.config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	provider, err := openai.NewProvider(openai.Config{
		APIKey:     f.config.OpenAIAPIKey,
		BaseURL:    f.config.OpenAIBaseURL,
		MaxRetries: f.config.LLMMaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
	}

	return provider, nil
}

// createAnthropicProvider creates an Anthropic provider instance
func (f *ProviderFactory) createAnthropicProvider() (domainllm.LLMProvider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(anthropic.Config{
		APIKey:     f.config.AnthropicAPIKey,
		MaxRetries: f.config.LLMMaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	return provider, nil
}
