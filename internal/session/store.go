package session

import (
	"context"
	"sync"
)

// Store keeps transient sessions between HTTP calls. Acquire/Release guard a
// session against concurrent calls: Acquire returns false while another call
// holds the session.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Acquire(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// MemoryStore is a process-local Store used in tests and single-node
// development runs.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	busy     map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		busy:     make(map[string]bool),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.busy, id)
	return nil
}

func (m *MemoryStore) Acquire(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy[id] {
		return false, nil
	}
	m.busy[id] = true
	return true, nil
}

func (m *MemoryStore) Release(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.busy, id)
	return nil
}
