package orders

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkozyrev/food-ordering/internal/client/api"
	"github.com/mkozyrev/food-ordering/internal/client/localstore"
	"github.com/mkozyrev/food-ordering/internal/models"
)

type remoteStub struct {
	fail          bool
	created       int
	statusUpdates int
	cancels       int
	lastReason    string
}

func (r *remoteStub) CreateOrder(_ context.Context, req models.DummyOrder) (*api.CreateOrderResult, error) {
	if r.fail {
		return nil, errors.New("connection refused")
	}
	r.created++
	return &api.CreateOrderResult{OrderID: "server-1", PaymentURL: "https://pay.example.com/p/1"}, nil
}

func (r *remoteStub) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if r.fail {
		return nil, errors.New("connection refused")
	}
	r.statusUpdates++
	return &models.Order{ID: id, Status: status}, nil
}

func (r *remoteStub) CancelOrder(_ context.Context, id, reason string) (*models.Order, error) {
	if r.fail {
		return nil, errors.New("connection refused")
	}
	r.cancels++
	r.lastReason = reason
	return &models.Order{ID: id, Status: models.StatusCancelled, CancelReason: reason}, nil
}

func newManager(remote *remoteStub) *Manager {
	return New(localstore.NewMemory(), remote, slog.New(slog.DiscardHandler))
}

func TestAddToCartMergesDuplicates(t *testing.T) {
	m := newManager(&remoteStub{})

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "Борщ", Price: 450, Quantity: 1})
	require.NoError(t, err)

	cart, err := m.AddToCart(models.CartItem{DishID: 1, Name: "Борщ", Price: 450, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	total, err := m.Total()
	require.NoError(t, err)
	assert.Equal(t, 1350.0, total)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	m := newManager(&remoteStub{})

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "Борщ", Price: 450, Quantity: 2})
	require.NoError(t, err)
	_, err = m.AddToCart(models.CartItem{DishID: 2, Name: "Пельмени", Price: 390, Quantity: 1})
	require.NoError(t, err)

	cart, err := m.UpdateQuantity(1, 0)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].DishID)
}

func TestUpdateQuantityMissingItem(t *testing.T) {
	m := newManager(&remoteStub{})

	_, err := m.UpdateQuantity(99, 2)

	require.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCreateOrderSynced(t *testing.T) {
	remote := &remoteStub{}
	m := newManager(remote)

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "Борщ", Price: 450, Quantity: 2})
	require.NoError(t, err)

	order, err := m.CreateOrder(context.Background(), Checkout{
		PaymentMethod: models.PaymentCard,
		DeliveryType:  models.DeliveryPickup,
		UserPhone:     "+79001234567",
	})

	require.NoError(t, err)
	assert.True(t, order.Synced)
	assert.Equal(t, "server-1", order.ID)
	assert.Equal(t, "https://pay.example.com/p/1", order.PaymentURL)
	assert.Equal(t, 900.0, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 1, remote.created)

	cart, err := m.Cart()
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCreateOrderOffline(t *testing.T) {
	remote := &remoteStub{fail: true}
	m := newManager(remote)

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "Борщ", Price: 450, Quantity: 1})
	require.NoError(t, err)

	order, err := m.CreateOrder(context.Background(), Checkout{
		PaymentMethod: models.PaymentCash,
		DeliveryType:  models.DeliveryCourier,
	})

	require.NoError(t, err)
	assert.False(t, order.Synced)
	assert.NotEmpty(t, order.ID)

	list, err := m.Orders()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)
	assert.Equal(t, models.StatusPending, list[0].Status)

	cart, err := m.Cart()
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	m := newManager(&remoteStub{})

	_, err := m.CreateOrder(context.Background(), Checkout{PaymentMethod: models.PaymentCash})

	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrdersNewestFirst(t *testing.T) {
	m := newManager(&remoteStub{fail: true})

	for _, dish := range []int64{1, 2} {
		_, err := m.AddToCart(models.CartItem{DishID: dish, Name: "x", Price: 100, Quantity: 1})
		require.NoError(t, err)
		_, err = m.CreateOrder(context.Background(), Checkout{PaymentMethod: models.PaymentCash})
		require.NoError(t, err)
	}

	list, err := m.Orders()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].Items[0].DishID)
}

func TestUpdateOrderStatus(t *testing.T) {
	remote := &remoteStub{}
	m := newManager(remote)

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "x", Price: 100, Quantity: 1})
	require.NoError(t, err)
	created, err := m.CreateOrder(context.Background(), Checkout{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	order, err := m.UpdateOrderStatus(context.Background(), created.ID, models.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, order.Status)
	assert.Equal(t, 1, remote.statusUpdates)

	_, err = m.UpdateOrderStatus(context.Background(), created.ID, models.StatusDelivered)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.UpdateOrderStatus(context.Background(), created.ID, "unknown")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestUpdateOrderStatusUnsyncedSkipsRemote(t *testing.T) {
	remote := &remoteStub{fail: true}
	m := newManager(remote)

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "x", Price: 100, Quantity: 1})
	require.NoError(t, err)
	created, err := m.CreateOrder(context.Background(), Checkout{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	require.False(t, created.Synced)

	remote.fail = false

	order, err := m.UpdateOrderStatus(context.Background(), created.ID, models.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, order.Status)
	assert.Equal(t, 0, remote.statusUpdates)
}

func TestCancelOrderIdempotent(t *testing.T) {
	remote := &remoteStub{}
	m := newManager(remote)

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "x", Price: 100, Quantity: 1})
	require.NoError(t, err)
	created, err := m.CreateOrder(context.Background(), Checkout{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	order, err := m.CancelOrder(context.Background(), created.ID, "Нет курьеров")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, order.Status)
	assert.Equal(t, "Нет курьеров", order.CancelReason)
	require.NotNil(t, order.CancelledAt)
	assert.Equal(t, 1, remote.cancels)

	again, err := m.CancelOrder(context.Background(), created.ID, "Другая причина")
	require.NoError(t, err)
	assert.Equal(t, "Нет курьеров", again.CancelReason)
	assert.Equal(t, 1, remote.cancels)
}

func TestCancelOrderDefaultReason(t *testing.T) {
	remote := &remoteStub{}
	m := newManager(remote)

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "x", Price: 100, Quantity: 1})
	require.NoError(t, err)
	created, err := m.CreateOrder(context.Background(), Checkout{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	order, err := m.CancelOrder(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCancelReason, order.CancelReason)
	assert.Equal(t, models.DefaultCancelReason, remote.lastReason)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	m := newManager(&remoteStub{})

	_, err := m.AddToCart(models.CartItem{DishID: 1, Name: "x", Price: 100, Quantity: 1})
	require.NoError(t, err)
	created, err := m.CreateOrder(context.Background(), Checkout{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	ctx := context.Background()
	for _, s := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusDelivered} {
		_, err = m.UpdateOrderStatus(ctx, created.ID, s)
		require.NoError(t, err)
	}

	_, err = m.CancelOrder(ctx, created.ID, "")
	require.ErrorIs(t, err, ErrInvalidTransition)
}
