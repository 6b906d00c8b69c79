package db

import (
	"context"
	"sync"
)

// MemSlot keeps the value in memory. Used for tests and ephemeral sessions.
type MemSlot struct {
	mu       sync.RWMutex
	value    []byte
	ok       bool
	writes   int
	failWith error
}

func NewMemSlot() *MemSlot {
	return &MemSlot{}
}

func (m *MemSlot) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.value...), nil
}

func (m *MemSlot) Save(ctx context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.value = append([]byte(nil), value...)
	m.ok = true
	m.writes++
	return nil
}

// Seed sets the stored value without counting it as a write.
func (m *MemSlot) Seed(value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = append([]byte(nil), value...)
	m.ok = true
}

// FailWrites makes every following Save return err; nil restores normal writes.
func (m *MemSlot) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Writes reports how many Save calls succeeded.
func (m *MemSlot) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
