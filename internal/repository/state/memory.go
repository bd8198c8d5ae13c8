package state

import (
	"context"
	"sync"

	"restofront/internal/domain"
)

// Memory is an in-process Repository used in tests and when no database
// is configured. FailReads/FailWrites let tests exercise the fail-soft
// persistence paths.
type Memory struct {
	mu         sync.Mutex
	data       map[string]map[string][]byte
	FailReads  error
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, ownerID, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads != nil {
		return nil, m.FailReads
	}
	owner, ok := m.data[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	value, ok := owner[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Set(_ context.Context, ownerID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	owner, ok := m.data[ownerID]
	if !ok {
		owner = make(map[string][]byte)
		m.data[ownerID] = owner
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	owner[key] = stored
	return nil
}

func (m *Memory) Delete(_ context.Context, ownerID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	if owner, ok := m.data[ownerID]; ok {
		delete(owner, key)
	}
	return nil
}

func (m *Memory) DeleteAll(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.data, ownerID)
	return nil
}
