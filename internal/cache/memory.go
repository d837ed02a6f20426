package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// Memory is a bounded LRU cache held in process memory. Values are stored
// JSON-encoded so callers never share mutable state with the cache.
type Memory struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

// NewMemory creates a Memory cache holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	el, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		return ErrMiss
	}
	entry := el.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.removeElement(el)
		m.mu.Unlock()
		return ErrMiss
	}
	m.ll.MoveToFront(el)
	data := entry.data
	m.mu.Unlock()

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.data = data
		entry.expiresAt = expiresAt
		m.ll.MoveToFront(el)
		return nil
	}

	m.items[key] = m.ll.PushFront(&memoryEntry{key: key, data: data, expiresAt: expiresAt})
	for m.ll.Len() > m.capacity {
		m.removeElement(m.ll.Back())
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		m.removeElement(el)
	}
	return nil
}

// Len reports the number of entries, including expired ones not yet evicted.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

func (m *Memory) removeElement(el *list.Element) {
	m.ll.Remove(el)
	delete(m.items, el.Value.(*memoryEntry).key)
}
