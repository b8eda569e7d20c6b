// Package orders реализует локальный жизненный цикл корзины и заказов
// на устройстве. Заказ сначала сохраняется локально и лишь затем
// отправляется на сервер: недоступность сети не мешает оформлению.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkozyrev/food-ordering/internal/client/api"
	"github.com/mkozyrev/food-ordering/internal/client/localstore"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
)

// Ошибки менеджера заказов.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must not be negative")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrUnknownStatus     = errors.New("unknown order status")
)

const (
	cartKey   = "client:cart"
	ordersKey = "client:orders"
)

// Remote серверная часть синхронизации заказов.
type Remote interface {
	CreateOrder(ctx context.Context, req models.DummyOrder) (*api.CreateOrderResult, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, id, reason string) (*models.Order, error)
}

// StoredOrder заказ в локальном хранилище. Synced показывает,
// дошёл ли заказ до сервера.
type StoredOrder struct {
	models.Order
	Synced bool `json:"synced"`
}

// Checkout данные оформления заказа, не входящие в корзину.
type Checkout struct {
	PaymentMethod   models.PaymentMethod
	DeliveryType    models.DeliveryType
	DeliveryAddress string
	DeliveryTime    string
	Comments        string
	UtensilsCount   int
	UserUID         string
	UserName        string
	UserPhone       string
}

// Manager управляет корзиной и заказами устройства.
type Manager struct {
	store  localstore.Store
	remote Remote
	log    *slog.Logger
	now    func() time.Time
}

// New создает менеджер поверх локального хранилища и серверного клиента.
func New(store localstore.Store, remote Remote, log *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		remote: remote,
		log:    log,
		now:    time.Now,
	}
}

// Cart возвращает текущую корзину.
func (m *Manager) Cart() (models.Cart, error) {
	const op = "orders.Manager.Cart"

	var cart models.Cart
	found, err := m.store.Get(cartKey, &cart)
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return models.Cart{}, nil
	}
	return cart, nil
}

// AddToCart добавляет позицию в корзину. Позиции с одинаковым DishID
// объединяются суммированием количества.
func (m *Manager) AddToCart(item models.CartItem) (models.Cart, error) {
	const op = "orders.Manager.AddToCart"

	if item.Quantity < 1 {
		return models.Cart{}, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	cart, err := m.Cart()
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if i := cart.Find(item.DishID); i >= 0 {
		cart.Items[i].Quantity += item.Quantity
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := m.store.Set(cartKey, cart); err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

// UpdateQuantity меняет количество позиции. Нулевое количество
// удаляет позицию из корзины.
func (m *Manager) UpdateQuantity(dishID int64, quantity int) (models.Cart, error) {
	const op = "orders.Manager.UpdateQuantity"

	if quantity < 0 {
		return models.Cart{}, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	cart, err := m.Cart()
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	i := cart.Find(dishID)
	if i < 0 {
		return models.Cart{}, fmt.Errorf("%s: %w", op, ErrCartItemNotFound)
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = quantity
	}

	if err := m.store.Set(cartKey, cart); err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

// ClearCart очищает корзину.
func (m *Manager) ClearCart() error {
	const op = "orders.Manager.ClearCart"

	if err := m.store.Remove(cartKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Total возвращает сумму текущей корзины.
func (m *Manager) Total() (float64, error) {
	cart, err := m.Cart()
	if err != nil {
		return 0, err
	}
	return cart.Total(), nil
}

// CreateOrder оформляет заказ из текущей корзины. Заказ всегда
// фиксируется локально, после чего корзина очищается. Отправка на
// сервер выполняется по возможности: при недоступности сети заказ
// остаётся несинхронизированным.
func (m *Manager) CreateOrder(ctx context.Context, checkout Checkout) (*StoredOrder, error) {
	const op = "orders.Manager.CreateOrder"

	log := m.log.With(slog.String("op", op))

	cart, err := m.Cart()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)

	list, err := m.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Локальные ID основаны на времени: два заказа в одну миллисекунду
	// получили бы одинаковый ID.
	now := m.now().UTC()
	for m.find(list, models.NewOrderID(now)) >= 0 {
		now = now.Add(time.Millisecond)
	}

	order := StoredOrder{
		Order: models.Order{
			ID:              models.NewOrderID(now),
			Items:           items,
			Total:           cart.Total(),
			UtensilsCount:   checkout.UtensilsCount,
			PaymentMethod:   checkout.PaymentMethod,
			DeliveryType:    checkout.DeliveryType,
			DeliveryAddress: checkout.DeliveryAddress,
			DeliveryTime:    checkout.DeliveryTime,
			Comments:        checkout.Comments,
			Status:          models.StatusPending,
			UserUID:         checkout.UserUID,
			UserName:        checkout.UserName,
			UserPhone:       checkout.UserPhone,
			CreatedAt:       now,
		},
	}

	list = append([]StoredOrder{order}, list...)
	if err := m.save(list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.ClearCart(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := m.remote.CreateOrder(ctx, models.DummyOrder{
		Items:           items,
		Total:           order.Total,
		Utensils:        checkout.UtensilsCount > 0,
		UtensilsCount:   checkout.UtensilsCount,
		PaymentMethod:   string(checkout.PaymentMethod),
		DeliveryType:    string(checkout.DeliveryType),
		DeliveryAddress: checkout.DeliveryAddress,
		DeliveryTime:    checkout.DeliveryTime,
		Comments:        checkout.Comments,
		UserID:          checkout.UserUID,
		UserName:        checkout.UserName,
		UserPhone:       checkout.UserPhone,
	})
	if err != nil {
		log.Warn("order saved locally, sync failed", slog.String("order_id", order.ID), sl.Err(err))
		return &order, nil
	}

	order.ID = result.OrderID
	order.PaymentURL = result.PaymentURL
	order.Synced = true
	list[0] = order
	if err := m.save(list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &order, nil
}

// Orders возвращает заказы устройства, новые первыми.
func (m *Manager) Orders() ([]StoredOrder, error) {
	const op = "orders.Manager.Orders"

	list, err := m.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// UpdateOrderStatus переводит локальный заказ в новый статус и по
// возможности сообщает об этом серверу.
func (m *Manager) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*StoredOrder, error) {
	const op = "orders.Manager.UpdateOrderStatus"

	log := m.log.With(slog.String("op", op))

	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownStatus)
	}

	list, err := m.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	i := m.find(list, id)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	if !models.CanTransition(list[i].Status, status) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	list[i].Status = status
	if err := m.save(list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if list[i].Synced {
		if _, err := m.remote.UpdateOrderStatus(ctx, id, status); err != nil {
			log.Warn("status updated locally, sync failed", slog.String("order_id", id), sl.Err(err))
		}
	}

	order := list[i]
	return &order, nil
}

// CancelOrder отменяет заказ. Повторная отмена не ошибка: сохраняется
// первая причина. Пустая причина заменяется причиной по умолчанию.
func (m *Manager) CancelOrder(ctx context.Context, id, reason string) (*StoredOrder, error) {
	const op = "orders.Manager.CancelOrder"

	log := m.log.With(slog.String("op", op))

	list, err := m.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	i := m.find(list, id)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}

	if list[i].Status == models.StatusCancelled {
		order := list[i]
		return &order, nil
	}
	if !models.CanTransition(list[i].Status, models.StatusCancelled) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	if reason == "" {
		reason = models.DefaultCancelReason
	}
	now := m.now().UTC()
	list[i].Status = models.StatusCancelled
	list[i].CancelReason = reason
	list[i].CancelledAt = &now

	if err := m.save(list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if list[i].Synced {
		if _, err := m.remote.CancelOrder(ctx, id, reason); err != nil {
			log.Warn("order cancelled locally, sync failed", slog.String("order_id", id), sl.Err(err))
		}
	}

	order := list[i]
	return &order, nil
}

func (m *Manager) load() ([]StoredOrder, error) {
	var list []StoredOrder
	found, err := m.store.Get(ordersKey, &list)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return list, nil
}

func (m *Manager) save(list []StoredOrder) error {
	return m.store.Set(ordersKey, list)
}

func (m *Manager) find(list []StoredOrder, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
