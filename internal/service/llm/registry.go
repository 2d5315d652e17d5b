package llm

import (
	"fmt"
	"sync"

	domainllm "cinedesk/internal/domain/services/llm"
)

// ProviderRegistry caches provider instances by name.
// Uses ProviderFactory to create each provider on first use.
type ProviderRegistry struct {
	factory *ProviderFactory
	cache   map[string]domainllm.LLMProvider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory *ProviderFactory) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.LLMProvider),
	}
}

// GetProvider returns the provider for the given name, creating it once.
func (r *ProviderRegistry) GetProvider(provider string) (domainllm.LLMProvider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache after acquiring write lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	created, err := r.factory.GetProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = created
	return created, nil
}

// Register installs a provider under its own name, replacing any cached one.
// Used for providers the factory cannot build, such as the scripted one.
func (r *ProviderRegistry) Register(provider domainllm.LLMProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[provider.Name()] = provider
}

// Validate checks if the factory is properly configured.
// Should be called at startup to fail fast if misconfigured.
func (r *ProviderRegistry) Validate() error {
	if r.factory == nil {
		return fmt.Errorf("provider factory is not configured")
	}
	return nil
}
