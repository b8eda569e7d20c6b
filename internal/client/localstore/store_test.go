package localstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	found, err := store.Get("missing", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("key", payload{Name: "Борщ", Count: 2}))

	var got payload
	found, err = store.Get("key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "Борщ", Count: 2}, got)

	require.NoError(t, store.Remove("key"))
	found, err = store.Get("key", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Повторное удаление не ошибка.
	require.NoError(t, store.Remove("key"))
}

type kvStub struct {
	memory *Memory
	ttls   map[string]time.Duration
}

func (s *kvStub) Get(key string, result any) (bool, error) {
	return s.memory.Get(key, result)
}

func (s *kvStub) Set(key string, value any, expiration time.Duration) error {
	s.ttls[key] = expiration
	return s.memory.Set(key, value)
}

func (s *kvStub) Invalidate(key string) error {
	return s.memory.Remove(key)
}

func TestPersistentAdaptsKV(t *testing.T) {
	kv := &kvStub{memory: NewMemory(), ttls: make(map[string]time.Duration)}
	store := NewPersistent(kv)

	require.NoError(t, store.Set("key", "значение"))
	assert.Equal(t, time.Duration(0), kv.ttls["key"])

	var got string
	found, err := store.Get("key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "значение", got)

	require.NoError(t, store.Remove("key"))
	found, err = store.Get("key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryReturnsCopy(t *testing.T) {
	store := NewMemory()

	require.NoError(t, store.Set("list", []int{1, 2, 3}))

	var first []int
	_, err := store.Get("list", &first)
	require.NoError(t, err)
	first[0] = 99

	var second []int
	_, err = store.Get("list", &second)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, second)
}
