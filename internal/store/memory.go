package store

import (
	"context"
	"sync"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

// MemoryStore keeps pity in process memory.
// Suitable for development, tests and single-instance deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]gacha.PityState
	locks  map[string]*sync.Mutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]gacha.PityState),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (m *MemoryStore) Get(_ context.Context, player string) (gacha.PityState, error) {
	if player == "" {
		return gacha.PityState{}, ErrEmptyPlayer
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[player], nil
}

func (m *MemoryStore) Update(ctx context.Context, player string, fn UpdateFunc) error {
	if player == "" {
		return ErrEmptyPlayer
	}
	l := m.playerLock(player)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	cur := m.states[player]
	m.mu.RUnlock()

	next, err := fn(cur)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.states[player] = next
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) playerLock(player string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[player]
	if !ok {
		l = &sync.Mutex{}
		m.locks[player] = l
	}
	return l
}
