// Package openai implements the LLM provider for OpenAI-compatible Chat
// Completions endpoints.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"cinedesk/internal/domain"
	domainllm "cinedesk/internal/domain/services/llm"
)

// DefaultTimeout bounds one request attempt
const DefaultTimeout = 60 * time.Second

// Config holds the OpenAI client settings.
type Config struct {
	APIKey     string
	BaseURL    string // empty means the SDK default
	MaxRetries int    // SDK-level retries on 429/5xx
	Timeout    time.Duration
}

// Provider implements the LLMProvider interface for OpenAI models.
type Provider struct {
	client *openai.Client
}

// NewProvider creates a new OpenAI provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// SupportsModel returns true for GPT and o-series models.
func (p *Provider) SupportsModel(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range []string{"gpt-", "o1", "o3", "o4", "chatgpt-"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// GenerateResponse runs one Chat Completions call.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by OpenAI provider", req.Model)
	}

	messages, err := convertToOpenAIMessages(req.System, req.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
		Tools:    convertToOpenAITools(req.Tools),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.UpstreamError{Service: "openai", Message: err.Error()}
	}

	response, err := convertFromOpenAIResponse(completion)
	if err != nil {
		return nil, fmt.Errorf("failed to convert response: %w", err)
	}

	return response, nil
}
