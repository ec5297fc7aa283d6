// Package testutil provides shared testing utilities and mocks
// for use across the todo-provider-kit test suite.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// ConfigurableMockProvider is a mock Provider implementation with configurable behavior.
// It records the arguments of every call and can be told to fail any operation.
type ConfigurableMockProvider struct {
	mu sync.RWMutex

	// Configuration
	name         string
	providerType types.ProviderType
	items        []types.Item
	nextID       int

	// Behavior control
	getAllError      error
	addError         error
	updateError      error
	deleteError      error
	healthCheckError error

	// Call tracking
	lastSearch      string
	lastUpdate      types.Item
	lastDeleteID    int
	getAllCalled    int
	addCalled       int
	updateCalled    int
	deleteCalled    int
	healthCheckCall int
}

// NewConfigurableMockProvider creates a new mock provider with default settings.
func NewConfigurableMockProvider(name string, providerType types.ProviderType) *ConfigurableMockProvider {
	return &ConfigurableMockProvider{
		name:         name,
		providerType: providerType,
		nextID:       1,
	}
}

// SetItems replaces the items returned by GetAll
func (m *ConfigurableMockProvider) SetItems(items []types.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]types.Item(nil), items...)
}

// SetGetAllError configures the provider to return an error on GetAll
func (m *ConfigurableMockProvider) SetGetAllError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getAllError = err
}

// SetAddError configures the provider to return an error on Add
func (m *ConfigurableMockProvider) SetAddError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addError = err
}

// SetUpdateError configures the provider to return an error on Update
func (m *ConfigurableMockProvider) SetUpdateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateError = err
}

// SetDeleteError configures the provider to return an error on Delete
func (m *ConfigurableMockProvider) SetDeleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
}

// SetHealthCheckError configures the provider to return an error on HealthCheck
func (m *ConfigurableMockProvider) SetHealthCheckError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthCheckError = err
}

// LastSearch returns the search argument of the most recent GetAll call
func (m *ConfigurableMockProvider) LastSearch() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSearch
}

// LastUpdate returns the item passed to the most recent Update call
func (m *ConfigurableMockProvider) LastUpdate() types.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdate
}

// LastDeleteID returns the id passed to the most recent Delete call
func (m *ConfigurableMockProvider) LastDeleteID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastDeleteID
}

// CallCounts returns how often each operation was invoked, keyed by operation name
func (m *ConfigurableMockProvider) CallCounts() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]int{
		"get_all":      m.getAllCalled,
		"add":          m.addCalled,
		"update":       m.updateCalled,
		"delete":       m.deleteCalled,
		"health_check": m.healthCheckCall,
	}
}

// Provider interface implementation

func (m *ConfigurableMockProvider) Name() string             { return m.name }
func (m *ConfigurableMockProvider) Type() types.ProviderType { return m.providerType }

func (m *ConfigurableMockProvider) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthCheckCall++
	return m.healthCheckError
}

func (m *ConfigurableMockProvider) GetAll(ctx context.Context, search string) ([]types.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getAllCalled++
	m.lastSearch = search
	if m.getAllError != nil {
		return nil, m.getAllError
	}
	return append(make([]types.Item, 0, len(m.items)), m.items...), nil
}

func (m *ConfigurableMockProvider) Add(ctx context.Context, item types.Item) (types.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalled++
	if m.addError != nil {
		return types.Item{}, m.addError
	}
	item.ID = m.nextID
	m.nextID++
	m.items = append(m.items, item)
	return item, nil
}

func (m *ConfigurableMockProvider) Update(ctx context.Context, item types.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalled++
	m.lastUpdate = item
	return m.updateError
}

func (m *ConfigurableMockProvider) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalled++
	m.lastDeleteID = id
	return m.deleteError
}

// String identifies the mock in assertion output
func (m *ConfigurableMockProvider) String() string {
	return fmt.Sprintf("mock(%s/%s)", m.name, m.providerType)
}
