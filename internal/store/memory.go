package store

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

// Memory is an in-process Store backed by a map, guarded by a mutex. Used
// by the `lookup`/`batch` CLI demo mode and by orchestrator tests.
type Memory struct {
	mu    sync.Mutex
	leads map[int64]model.Lead
}

// NewMemory seeds a Memory store with the given leads, keyed by id.
func NewMemory(leads []model.Lead) *Memory {
	m := &Memory{leads: make(map[int64]model.Lead, len(leads))}
	for _, l := range leads {
		m.leads[l.ID] = l
	}
	return m
}

func (m *Memory) FindByID(ctx context.Context, id int64) (*model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.leads[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *Memory) FindManyByIDs(ctx context.Context, ids []int64) ([]model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Lead, 0, len(ids))
	for _, id := range ids {
		if l, ok := m.leads[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) UpdateFields(ctx context.Context, id int64, f Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.leads[id]
	if !ok {
		return eris.Errorf("store: lead %d not found", id)
	}
	if f.PhoneNumber != nil {
		l.PhoneNumber = *f.PhoneNumber
	}
	if f.EmailVerified != nil {
		l.EmailVerified = *f.EmailVerified
	}
	m.leads[id] = l
	return nil
}

func (m *Memory) Close() error { return nil }
