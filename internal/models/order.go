package models

import (
	"strconv"
	"time"
)

// OrderStatus статус заказа.
type OrderStatus string

// Статусы жизненного цикла заказа.
const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions таблица допустимых переходов статусов.
// delivered и cancelled терминальные.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// DefaultCancelReason используется, когда причина отмены не указана.
const DefaultCancelReason = "Отменен рестораном"

// ValidStatus сообщает, известен ли статус таблице переходов.
func ValidStatus(s OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition сообщает, допустим ли переход из from в to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, является ли статус терминальным.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0 && ValidStatus(s)
}

// PaymentMethod способ оплаты заказа.
type PaymentMethod string

// Поддерживаемые способы оплаты.
const (
	PaymentCard    PaymentMethod = "card"
	PaymentSberPay PaymentMethod = "sberpay"
	PaymentCash    PaymentMethod = "cash"
	PaymentSBP     PaymentMethod = "sbp"
)

// ValidPaymentMethod сообщает, известен ли способ оплаты.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCard, PaymentSberPay, PaymentCash, PaymentSBP:
		return true
	}
	return false
}

// Online сообщает, требует ли способ оплаты создание платежа у провайдера.
func (m PaymentMethod) Online() bool {
	return m != PaymentCash
}

// DeliveryType способ получения заказа.
type DeliveryType string

// Способы получения заказа.
const (
	DeliveryPickup  DeliveryType = "pickup"
	DeliveryCourier DeliveryType = "delivery"
)

// Order заказ: неизменяемый снимок позиций корзины плюс данные доставки,
// оплаты и изменяемый статус. Заказы никогда не удаляются физически.
type Order struct {
	ID              string        `json:"id"`
	Items           []CartItem    `json:"items"`
	Total           float64       `json:"total"`
	UtensilsCount   int           `json:"utensils_count"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	DeliveryType    DeliveryType  `json:"delivery_type"`
	DeliveryAddress string        `json:"delivery_address,omitempty"`
	DeliveryTime    string        `json:"delivery_time,omitempty"`
	Comments        string        `json:"comments,omitempty"`
	Status          OrderStatus   `json:"status"`
	CancelReason    string        `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	PaymentID       string        `json:"payment_id,omitempty"`
	PaymentURL      string        `json:"payment_url,omitempty"`
	PaymentStatus   string        `json:"payment_status,omitempty"`
	UserUID         string        `json:"user_uid,omitempty"`
	UserName        string        `json:"user_name,omitempty"`
	UserPhone       string        `json:"user_phone,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// NewOrderID возвращает идентификатор заказа на основе времени создания.
func NewOrderID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// DummyOrder используется для приёма данных заказа из JSON-запроса.
// Формат совпадает с телом POST /order.
type DummyOrder struct {
	Items           []CartItem `json:"items" validate:"required,min=1,dive"`
	Total           float64    `json:"total"`
	Utensils        bool       `json:"utensils"`
	UtensilsCount   int        `json:"utensilsCount"`
	PaymentMethod   string     `json:"paymentMethod" validate:"required"`
	DeliveryType    string     `json:"deliveryType" validate:"required"`
	DeliveryAddress string     `json:"deliveryAddress"`
	DeliveryTime    string     `json:"deliveryTime"`
	Comments        string     `json:"comments"`
	UserID          string     `json:"userId"`
	UserName        string     `json:"userName"`
	UserPhone       string     `json:"userPhone"`
}

// DummyStatusUpdate используется для приёма нового статуса заказа.
type DummyStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// DummyCancel используется для приёма причины отмены заказа.
type DummyCancel struct {
	Reason string `json:"reason"`
}

// OrderEvent сообщение о созданном заказе для очереди уведомлений.
type OrderEvent struct {
	OrderID      string       `json:"order_id"`
	Total        float64      `json:"total"`
	Items        []CartItem   `json:"items"`
	DeliveryType DeliveryType `json:"delivery_type"`
	UserPhone    string       `json:"user_phone,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
