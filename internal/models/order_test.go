package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to preparing", StatusPending, StatusPreparing, true},
		{"preparing to ready", StatusPreparing, StatusReady, true},
		{"ready to delivered", StatusReady, StatusDelivered, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"preparing to cancelled", StatusPreparing, StatusCancelled, true},
		{"ready to cancelled", StatusReady, StatusCancelled, true},
		{"pending to ready skips preparing", StatusPending, StatusReady, false},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"backwards from ready", StatusReady, StatusPreparing, false},
		{"unknown status", OrderStatus("shipped"), StatusReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusPreparing.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
	assert.False(t, OrderStatus("shipped").IsTerminal())
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCard, PaymentSberPay, PaymentCash, PaymentSBP} {
		assert.True(t, ValidPaymentMethod(m))
	}
	assert.False(t, ValidPaymentMethod(PaymentMethod("bitcoin")))

	assert.True(t, PaymentCard.Online())
	assert.True(t, PaymentSBP.Online())
	assert.False(t, PaymentCash.Online())
}

func TestCartTotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{DishID: 1, Name: "Пицца Маргарита", Price: 100, Quantity: 2},
		{DishID: 2, Name: "Морс", Price: 50, Quantity: 1},
	}}
	assert.Equal(t, 250.0, cart.Total())

	empty := Cart{}
	assert.Equal(t, 0.0, empty.Total())
}

func TestNewOrderID(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "1740830400000", NewOrderID(now))
}

func TestUserAddAddress(t *testing.T) {
	u := User{}
	u.AddAddress("ул. Ленина, 1")
	u.AddAddress("ул. Ленина, 1")
	u.AddAddress("")
	u.AddAddress("пр. Мира, 10")
	assert.Equal(t, []string{"ул. Ленина, 1", "пр. Мира, 10"}, u.Addresses)
}
