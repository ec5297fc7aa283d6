// Package factory provides provider factory functionality for to-do providers.
// It includes registration, creation, and management of different provider implementations.
package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// FactoryFunc builds a provider from its configuration.
type FactoryFunc func(types.ProviderConfig) (types.Provider, error)

// DefaultProviderFactory is the default factory implementation
type DefaultProviderFactory struct {
	providers map[types.ProviderType]FactoryFunc
	mutex     sync.RWMutex
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory() *DefaultProviderFactory {
	return &DefaultProviderFactory{
		providers: make(map[types.ProviderType]FactoryFunc),
	}
}

// RegisterProvider registers a new provider type
func (f *DefaultProviderFactory) RegisterProvider(providerType types.ProviderType, factoryFunc FactoryFunc) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.providers[providerType] = factoryFunc
}

// CreateProvider creates a provider instance
func (f *DefaultProviderFactory) CreateProvider(providerType types.ProviderType, config types.ProviderConfig) (types.Provider, error) {
	f.mutex.RLock()
	factoryFunc, exists := f.providers[providerType]
	f.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("provider type %s not registered", providerType)
	}

	if config.Type == "" {
		config.Type = providerType
	}
	provider, err := factoryFunc(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", providerType, err)
	}
	return provider, nil
}

// GetSupportedProviders returns all supported provider types, sorted
func (f *DefaultProviderFactory) GetSupportedProviders() []types.ProviderType {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	providerTypes := make([]types.ProviderType, 0, len(f.providers))
	for providerType := range f.providers {
		providerTypes = append(providerTypes, providerType)
	}
	sort.Slice(providerTypes, func(i, j int) bool { return providerTypes[i] < providerTypes[j] })

	return providerTypes
}
