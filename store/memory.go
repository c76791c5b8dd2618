package store

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
)

type Memory struct {
	mu      sync.RWMutex
	results map[string]*core.Result
}

func NewMemory() *Memory {
	return &Memory{results: make(map[string]*core.Result)}
}

func (m *Memory) Setup(*core.Conf) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]*core.Result)
	}
	return nil
}

func (m *Memory) Save(_ context.Context, r *core.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.ID] = r.Clone()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*core.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[id]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	return r.Clone(), nil
}
