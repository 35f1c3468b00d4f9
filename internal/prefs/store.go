package prefs

import (
	"context"
	"maps"
	"sync"
)

// Store: локальное хранилище настроек «ключ-значение».
// Update применяет все изменения атомарно: либо все, либо ни одного.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Update(ctx context.Context, set map[string]string, remove []string) error
	Clear(ctx context.Context) error
}

// Set записывает одно значение.
func Set(ctx context.Context, s Store, key, value string) error {
	return s.Update(ctx, map[string]string{key: value}, nil)
}

// Delete удаляет ключи.
func Delete(ctx context.Context, s Store, keys ...string) error {
	return s.Update(ctx, nil, keys)
}

// MemoryStore хранит настройки в памяти процесса.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Update(_ context.Context, set map[string]string, remove []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	applyChanges(m.values, set, remove)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
	return nil
}

// Snapshot возвращает копию содержимого (для тестов и отладки).
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}

func applyChanges(values map[string]string, set map[string]string, remove []string) {
	for _, key := range remove {
		delete(values, key)
	}
	maps.Copy(values, set)
}
