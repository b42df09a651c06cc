package storage

import (
	"strings"
	"sync"
)

// MemoryStore 进程内存储，数据库不可用时的回退后端
// MemoryStore is an in-process Store, used as fallback when the database cannot be opened
type MemoryStore struct {
	mu      sync.Mutex
	kv      map[string]string
	entries []Entry
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{kv: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[strings.TrimSpace(key)]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[strings.TrimSpace(key)] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, strings.TrimSpace(key))
	return nil
}

func (m *MemoryStore) AppendEntry(entry Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if strings.TrimSpace(entry.CreatedAt) == "" {
		entry.CreatedAt = nowUTC()
	}
	m.nextID++
	entry.ID = m.nextID
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *MemoryStore) RecentEntries(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		return nil, nil
	}
	start := len(m.entries) - limit
	if start < 0 {
		start = 0
	}
	return append([]Entry(nil), m.entries[start:]...), nil
}

func (m *MemoryStore) ClearEntries() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

func (m *MemoryStore) Close() error { return nil }
