package services

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkozyrev/food-ordering/internal/models"
)

type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(key string, result any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (m *memoryStore) Set(key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryStore) Invalidate(key string) error {
	delete(m.data, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestAddMergesDuplicates(t *testing.T) {
	svc := NewCartService(newMemoryStore(), discardLogger())

	_, err := svc.Add("session-1", models.CartItem{DishID: 1, Name: "Борщ", Price: 350, Quantity: 1})
	require.NoError(t, err)
	cart, err := svc.Add("session-1", models.CartItem{DishID: 1, Name: "Борщ", Price: 350, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 1050.0, cart.Total())
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	store := newMemoryStore()
	svc := NewCartService(store, discardLogger())

	_, err := svc.Add("session-1", models.CartItem{DishID: 1, Name: "Борщ", Price: 350, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Add("session-1", models.CartItem{DishID: 2, Name: "Компот", Price: 90, Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity("session-1", 1, 0)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].DishID)

	// Удаление напрямую дает тот же результат.
	cart, err = svc.Remove("session-1", 2)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.NotContains(t, store.data, "cart:session-1")
}

func TestUpdateQuantityMissingDish(t *testing.T) {
	svc := NewCartService(newMemoryStore(), discardLogger())

	_, err := svc.UpdateQuantity("session-1", 42, 3)
	assert.Error(t, err)
}

func TestGetUnknownOwnerReturnsEmptyCart(t *testing.T) {
	svc := NewCartService(newMemoryStore(), discardLogger())

	cart, err := svc.Get("session-unknown")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	total, err := svc.Total("session-unknown")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestClear(t *testing.T) {
	svc := NewCartService(newMemoryStore(), discardLogger())

	_, err := svc.Add("session-1", models.CartItem{DishID: 1, Name: "Борщ", Price: 350, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Clear("session-1"))

	cart, err := svc.Get("session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestEmptyOwnerRejected(t *testing.T) {
	svc := NewCartService(newMemoryStore(), discardLogger())

	_, err := svc.Get("")
	assert.ErrorIs(t, err, ErrEmptyOwner)
	assert.ErrorIs(t, svc.Clear(""), ErrEmptyOwner)
}
