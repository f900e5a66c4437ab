package session

import "sync"

// Memory keeps the session for the lifetime of the process only.
type Memory struct {
	mu    sync.Mutex
	state State
}

func (m *Memory) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *Memory) Save(st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	return nil
}
