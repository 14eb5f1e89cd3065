// Package store provides the core.Store backends: an in-memory store, a
// PostgreSQL store and a fail-closed placeholder for an unreachable
// database. Open picks one at startup.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// Memory keeps businesses in process memory, in insertion order.
// Contents are lost on restart.
type Memory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]core.Business
	newID func() string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:  make(map[string]core.Business),
		newID: uuid.NewString,
	}
}

func (m *Memory) List(ctx context.Context) ([]core.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Business, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id].Clone())
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id string) (core.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.byID[id]
	if !ok {
		return core.Business{}, core.ErrNotFound
	}
	return b.Clone(), nil
}

func (m *Memory) Create(ctx context.Context, in core.BusinessInput) (core.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.insertLocked(in).Clone(), nil
}

func (m *Memory) Update(ctx context.Context, id string, patch core.BusinessPatch) (core.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.byID[id]
	if !ok {
		return core.Business{}, core.ErrNotFound
	}
	b = patch.Apply(b)
	m.byID[id] = b
	return b.Clone(), nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.byID, id)
	m.order = slices.DeleteFunc(m.order, func(v string) bool { return v == id })
	return nil
}

// BulkCreate inserts every input under one lock, so the batch is never
// interleaved with other writers.
func (m *Memory) BulkCreate(ctx context.Context, in []core.BusinessInput) ([]core.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Business, 0, len(in))
	for _, input := range in {
		out = append(out, m.insertLocked(input).Clone())
	}
	return out, nil
}

func (m *Memory) insertLocked(in core.BusinessInput) core.Business {
	id := m.newID()
	for {
		if _, taken := m.byID[id]; !taken {
			break
		}
		id = m.newID()
	}

	b := core.NewBusiness(id, in)
	m.byID[id] = b
	m.order = append(m.order, id)
	return b
}
