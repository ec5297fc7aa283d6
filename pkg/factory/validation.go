// Package factory provides validation utilities for provider configuration.
package factory

import (
	"fmt"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// ValidateProviderConfig checks the fields each provider type requires.
func ValidateProviderConfig(config types.ProviderConfig) error {
	switch config.Type {
	case "":
		return fmt.Errorf("provider type is required")
	case types.ProviderTypeMemory:
		return nil
	case types.ProviderTypeSQLite:
		if config.DSN == "" {
			return fmt.Errorf("dsn is required for %s provider", config.Type)
		}
		return nil
	default:
		return fmt.Errorf("unknown provider type %q", config.Type)
	}
}
