package session

import "sync"

// MemStore guarda la sesión solo en memoria (tests y herramientas).
type MemStore struct {
	mu   sync.RWMutex
	s    Session
	full bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	m.full = true
	return nil
}

func (m *MemStore) Load() (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s, m.full && m.s.Token != "", nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{}
	m.full = false
	return nil
}

func (m *MemStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.Token
}
