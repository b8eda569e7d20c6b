// Package localstore предоставляет локальное key-value хранилище клиента.
// Данные переживают перезапуск только в реализациях с носителем,
// Memory хранит всё в памяти процесса.
package localstore

import (
	"encoding/json"
	"sync"
	"time"
)

// Store описывает локальное хранилище клиента.
type Store interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any) error
	Remove(key string) error
}

// Memory реализует Store в памяти. Значения хранятся сериализованным JSON,
// чтение всегда возвращает независимую копию.
type Memory struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemory создает пустое хранилище.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]json.RawMessage)}
}

// Get читает значение по ключу. Отсутствие ключа не считается ошибкой.
func (m *Memory) Get(key string, result any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

// Set сохраняет значение по ключу, затирая прежнее.
func (m *Memory) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

// Remove удаляет ключ. Отсутствующий ключ не считается ошибкой.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// KV описывает бэкенд хранения с временем жизни записей.
// internal/cache.Cache реализует его поверх Redis.
type KV interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Persistent адаптирует KV-бэкенд под Store. Записи хранятся без
// истечения, состояние клиента переживает перезапуск.
type Persistent struct {
	kv KV
}

// NewPersistent создает хранилище поверх KV-бэкенда.
func NewPersistent(kv KV) *Persistent {
	return &Persistent{kv: kv}
}

// Get читает значение по ключу.
func (p *Persistent) Get(key string, result any) (bool, error) {
	return p.kv.Get(key, result)
}

// Set сохраняет значение без времени жизни.
func (p *Persistent) Set(key string, value any) error {
	return p.kv.Set(key, value, 0)
}

// Remove удаляет ключ.
func (p *Persistent) Remove(key string) error {
	return p.kv.Invalidate(key)
}
