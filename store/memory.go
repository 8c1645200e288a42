package store

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

type inMemory struct {
	mu      sync.RWMutex
	maxRuns int
	// ids in insertion order, oldest first
	ids     []string
	storage map[string]*Run
}

// NewMemoryStore returns a store keeping up to maxRuns latest runs
func NewMemoryStore(maxRuns int) RunStore {
	if maxRuns <= 0 {
		maxRuns = DefaultMaxRuns
	}
	return &inMemory{
		maxRuns: maxRuns,
		storage: make(map[string]*Run),
	}
}

func (m *inMemory) Put(_ context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New("run ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.storage[run.ID]; !ok {
		m.ids = append(m.ids, run.ID)
	}
	m.storage[run.ID] = run

	for len(m.ids) > m.maxRuns {
		delete(m.storage, m.ids[0])
		m.ids = m.ids[1:]
	}
	return nil
}

func (m *inMemory) Get(_ context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.storage[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	return run, nil
}

func (m *inMemory) List(_ context.Context, limit int) ([]*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.ids) {
		limit = len(m.ids)
	}
	list := make([]*Run, 0, limit)
	for i := len(m.ids) - 1; i >= 0 && len(list) < limit; i-- {
		list = append(list, m.storage[m.ids[i]])
	}
	return list, nil
}
