// Package factory provides provider registration and factory functions for to-do providers.
// It includes default provider registrations and the selector builder.
package factory

import (
	"fmt"
	"io"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/providers/memory"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/providers/sqlite"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// RegisterDefaultProviders registers all default providers with the factory
func RegisterDefaultProviders(factory *DefaultProviderFactory) {
	factory.RegisterProvider(types.ProviderTypeMemory, func(config types.ProviderConfig) (types.Provider, error) {
		return memory.NewMemoryProvider(config), nil
	})

	factory.RegisterProvider(types.ProviderTypeSQLite, func(config types.ProviderConfig) (types.Provider, error) {
		return sqlite.NewSQLiteProvider(config)
	})
}

// BuildSelector creates both providers from their configs and wires them into a
// Selector keyed by durableKey. The returned providers are owned by the caller,
// which is responsible for closing any that hold resources.
func BuildSelector(factory *DefaultProviderFactory, memoryConfig, sqliteConfig types.ProviderConfig, durableKey string) (*Selector, error) {
	if err := ValidateProviderConfig(memoryConfig); err != nil {
		return nil, fmt.Errorf("memory provider config: %w", err)
	}
	if err := ValidateProviderConfig(sqliteConfig); err != nil {
		return nil, fmt.Errorf("sqlite provider config: %w", err)
	}

	transient, err := factory.CreateProvider(types.ProviderTypeMemory, memoryConfig)
	if err != nil {
		return nil, err
	}
	durable, err := factory.CreateProvider(types.ProviderTypeSQLite, sqliteConfig)
	if err != nil {
		return nil, err
	}
	if transient.Name() == durable.Name() {
		if c, ok := durable.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("memory and sqlite providers share the name %q", durable.Name())
	}

	return NewSelector(transient, durable, durableKey), nil
}
