package llm

import (
	"fmt"
	"log/slog"

	"cinedesk/internal/auth"
	"cinedesk/internal/config"
	"cinedesk/internal/domain/services"
	"cinedesk/internal/service/llm/agent"
	"cinedesk/internal/service/llm/tools"
	"cinedesk/internal/service/llm/tools/external"
)

// SetupProviders initializes the provider factory and registry.
// Returns a configured ProviderRegistry or an error if setup fails.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	registry := NewProviderRegistry(NewProviderFactory(cfg))

	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	// Log available providers based on config
	if cfg.OpenAIAPIKey != "" {
		logger.Info("provider available", "name", "openai", "models", "gpt-*, o*")
	} else {
		logger.Warn("OPENAI_API_KEY not set - OpenAI provider not available")
	}
	if cfg.AnthropicAPIKey != "" {
		logger.Info("provider available", "name", "anthropic", "models", "claude-*")
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set - Anthropic provider not available")
	}

	return registry, nil
}

// SetupMovieClients builds the TMDB client and the Permit checker.
// Both are nil unless TMDB_API_KEY and PERMIT_API_KEY are set, which
// leaves the movie tools (and the movie agent) disabled.
func SetupMovieClients(cfg *config.Config, logger *slog.Logger) (external.MovieClient, services.PermissionChecker) {
	if cfg.TMDBAPIKey == "" || cfg.PermitAPIKey == "" {
		logger.Warn("TMDB_API_KEY or PERMIT_API_KEY not set - movie tools disabled")
		return nil, nil
	}

	movies := external.NewTMDBClientWithConfig(cfg.TMDBAPIKey, cfg.TMDBBaseURL, external.DefaultTMDBTimeout)
	perms := auth.NewPermitClient(cfg.PermitAPIKey, cfg.PermitPDPURL, cfg.PermitTenant, logger)
	logger.Info("movie tools enabled", "tmdb_url", cfg.TMDBBaseURL, "pdp_url", cfg.PermitPDPURL)
	return movies, perms
}

// Dependencies are the collaborators the tools call into.
// Movies and Permissions may be nil.
type Dependencies struct {
	Documents   services.DocumentService
	Movies      external.MovieClient
	Permissions services.PermissionChecker
}

// Services holds the wired agent layer
type Services struct {
	Tools      *tools.ToolRegistry
	Supervisor *agent.Agent
	Model      *ModelInfo
}

// SetupServices registers the tools and builds the agents on the configured model.
func SetupServices(
	deps Dependencies,
	providers *ProviderRegistry,
	cfg *config.Config,
	logger *slog.Logger,
) (*Services, error) {
	builder := tools.NewToolRegistryBuilder(logger).
		WithDocumentTools(deps.Documents)
	if deps.Movies != nil && deps.Permissions != nil {
		builder = builder.WithMovieTools(deps.Movies, deps.Permissions)
	}
	registry := builder.Build()

	model, err := ResolveModel(cfg.DefaultModel, cfg.DefaultProvider)
	if err != nil {
		return nil, fmt.Errorf("invalid model configuration: %w", err)
	}
	provider, err := providers.GetProvider(model.Provider)
	if err != nil {
		return nil, err
	}

	defs, err := agent.LoadDefinitions()
	if err != nil {
		return nil, err
	}

	// Deterministic tool routing
	temperature := 0.0
	supervisor, err := defs.Build(registry, agent.BuildOptions{
		Provider:      provider,
		Model:         model.Model,
		MaxIterations: cfg.AgentMaxIterations,
		Temperature:   &temperature,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build agents: %w", err)
	}

	logger.Info("agent services initialized",
		"provider", model.Provider,
		"model", model.Model,
		"tools", registry.Len())

	return &Services{
		Tools:      registry,
		Supervisor: supervisor,
		Model:      model,
	}, nil
}
