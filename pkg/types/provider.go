package types

import (
	"context"
	"strings"
)

// ProviderType identifies a storage backend. The values double as the
// X-Provider header keys understood by the HTTP API.
type ProviderType string

const (
	ProviderTypeMemory ProviderType = "InMemory"
	ProviderTypeSQLite ProviderType = "EfCore"
)

// ProviderHeader is the request header carrying the provider key.
const ProviderHeader = "X-Provider"

// TodoProvider is the capability set implemented by every storage backend.
//
// Update and Delete on an identifier that does not exist succeed without
// effect. Implementations must be safe for concurrent use.
type TodoProvider interface {
	// GetAll returns every item when search is blank, otherwise the items
	// whose title contains search, ignoring case.
	GetAll(ctx context.Context, search string) ([]Item, error)

	// Add stores item under a freshly assigned identifier and returns the stored copy.
	// Any identifier on the incoming item is ignored.
	Add(ctx context.Context, item Item) (Item, error)

	// Update replaces the stored item with the same identifier.
	Update(ctx context.Context, item Item) error

	// Delete removes the item with the given identifier.
	Delete(ctx context.Context, id int) error
}

// Provider is a TodoProvider that can describe itself.
type Provider interface {
	TodoProvider

	Name() string
	Type() ProviderType
	HealthCheck(ctx context.Context) error
}

// IsBlank reports whether a search term should be treated as absent.
func IsBlank(search string) bool {
	return strings.TrimSpace(search) == ""
}
