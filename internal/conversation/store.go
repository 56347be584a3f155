package conversation

import (
	"context"
	"sync"
	"time"
)

// Store persists at most one pending State per chat.
type Store interface {
	// Get returns the pending state, or nil when the chat is idle.
	Get(ctx context.Context, chatID int64) (*State, error)
	// Put saves the state and restarts its expiry.
	Put(ctx context.Context, chatID int64, s *State) error
	Clear(ctx context.Context, chatID int64) error
}

// MemoryStore is the in-process Store used when Redis is not configured.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	states map[int64]State
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, states: make(map[int64]State)}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[chatID]
	if !ok {
		return nil, nil
	}
	if s.Expired(m.now()) {
		delete(m.states, chatID)
		return nil, nil
	}
	return cloneState(s), nil
}

func (m *MemoryStore) Put(_ context.Context, chatID int64, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ExpiresAt = m.now().Add(m.ttl)
	m.states[chatID] = *cloneState(*s)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
	return nil
}

// Sweep drops expired states and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.states {
		if s.Expired(now) {
			delete(m.states, id)
			removed++
		}
	}
	return removed
}

func cloneState(s State) *State {
	data := make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	s.Data = data
	return &s
}
