// Package memory provides an in-process TodoProvider.
// Items live in an ordered slice for the lifetime of the process and are lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// MemoryProvider implements types.Provider over an ordered slice.
// Lookups scan linearly. Identifiers come from a counter that starts at 1 and
// is never reused, even after deletion.
type MemoryProvider struct {
	name   string
	mu     sync.Mutex
	items  []types.Item
	nextID int
}

// NewMemoryProvider creates a new in-memory provider
func NewMemoryProvider(config types.ProviderConfig) *MemoryProvider {
	name := config.Name
	if name == "" {
		name = "memory"
	}
	return &MemoryProvider{
		name:   name,
		items:  make([]types.Item, 0),
		nextID: 1,
	}
}

func (p *MemoryProvider) Name() string                          { return p.name }
func (p *MemoryProvider) Type() types.ProviderType              { return types.ProviderTypeMemory }
func (p *MemoryProvider) HealthCheck(ctx context.Context) error { return nil }

// GetAll implements types.TodoProvider. Results are copies in insertion order.
func (p *MemoryProvider) GetAll(ctx context.Context, search string) ([]types.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]types.Item, 0, len(p.items))
	if types.IsBlank(search) {
		return append(out, p.items...), nil
	}

	needle := strings.ToLower(search)
	for _, it := range p.items {
		if strings.Contains(strings.ToLower(it.Title), needle) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Add implements types.TodoProvider.
func (p *MemoryProvider) Add(ctx context.Context, item types.Item) (types.Item, error) {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	item.ID = p.nextID
	p.nextID++
	p.items = append(p.items, item)
	return item, nil
}

// Update implements types.TodoProvider. The stored item is replaced wholesale.
func (p *MemoryProvider) Update(ctx context.Context, item types.Item) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx := p.indexOf(item.ID); idx >= 0 {
		p.items[idx] = item
	}
	return nil
}

// Delete implements types.TodoProvider.
func (p *MemoryProvider) Delete(ctx context.Context, id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx := p.indexOf(id); idx >= 0 {
		p.items = append(p.items[:idx], p.items[idx+1:]...)
	}
	return nil
}

// Len returns the number of stored items.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// indexOf must be called with p.mu held.
func (p *MemoryProvider) indexOf(id int) int {
	for i := range p.items {
		if p.items[i].ID == id {
			return i
		}
	}
	return -1
}
