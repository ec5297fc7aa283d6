package factory

import (
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// DefaultDurableKey is the X-Provider value that selects the durable provider.
const DefaultDurableKey = string(types.ProviderTypeSQLite)

// Selector maps an X-Provider header value to a provider. Exactly one key
// selects the durable provider; every other value, including the empty
// string, selects the transient provider. It is read-only after construction.
type Selector struct {
	transient  types.Provider
	durable    types.Provider
	durableKey string
}

// NewSelector creates a selector. An empty durableKey falls back to DefaultDurableKey.
func NewSelector(transient, durable types.Provider, durableKey string) *Selector {
	if durableKey == "" {
		durableKey = DefaultDurableKey
	}
	return &Selector{
		transient:  transient,
		durable:    durable,
		durableKey: durableKey,
	}
}

// Resolve returns the provider for key. The comparison is exact.
func (s *Selector) Resolve(key string) types.Provider {
	if key == s.durableKey {
		return s.durable
	}
	return s.transient
}

// Providers returns both providers keyed by name, for health reporting.
func (s *Selector) Providers() map[string]types.Provider {
	return map[string]types.Provider{
		s.transient.Name(): s.transient,
		s.durable.Name():   s.durable,
	}
}

// DurableKey returns the key that selects the durable provider.
func (s *Selector) DurableKey() string { return s.durableKey }
