package repositories

import (
	"context"
	"sandbox-delivery-service/internal/domain"
	"sync"
)

// In-memory implementation of the DeliveryRepository port.
// Records live for the lifetime of the process only.
type MemoryDeliveryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.SandboxDelivery
	order []string
}

func NewMemoryDeliveryRepository() *MemoryDeliveryRepository {
	return &MemoryDeliveryRepository{byID: make(map[string]*domain.SandboxDelivery)}
}

func (m *MemoryDeliveryRepository) Get(_ context.Context, id string) (*domain.SandboxDelivery, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.byID[id]
	if !ok {
		return nil, false, nil
	}
	return d.Clone(), true, nil
}

func (m *MemoryDeliveryRepository) Save(_ context.Context, d *domain.SandboxDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[d.ID]; !ok {
		m.order = append(m.order, d.ID)
	}
	m.byID[d.ID] = d.Clone()
	return nil
}

func (m *MemoryDeliveryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return nil
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryDeliveryRepository) List(_ context.Context) ([]*domain.SandboxDelivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.SandboxDelivery, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id].Clone())
	}
	return out, nil
}
