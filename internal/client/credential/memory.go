package credential

import "sync"

var _ Store = (*Memory)(nil)

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Put(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.set = true
	return nil
}

func (m *Memory) Get() (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, m.set, nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	m.set = false
	return nil
}
