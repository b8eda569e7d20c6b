// Package services содержит бизнес-логику заказов: создание из корзины,
// жизненный цикл статусов, отмена и обработка платежных событий.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/metrics"
	"github.com/mkozyrev/food-ordering/internal/models"
	"github.com/mkozyrev/food-ordering/internal/paymentprovider"
)

// Ошибки уровня сервиса заказов.
var (
	ErrEmptyCart         = errors.New("order must contain at least one item")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrInvalidPayment    = errors.New("unknown payment method")
)

// OrderRepository описывает методы хранилища заказов.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) error
	ReadOrder(ctx context.Context, id string) (*models.Order, error)
	ReadOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (int, error)
	CancelOrder(ctx context.Context, order models.Order) (int, error)
	UpdateOrderPayment(ctx context.Context, id, paymentID, paymentURL, paymentStatus string) (int, error)
}

// PaymentProvider описывает создание платежа у внешнего провайдера.
type PaymentProvider interface {
	CreateOrderPayment(orderID string, total float64, method models.PaymentMethod) (*paymentprovider.CreatePaymentResponse, error)
}

// Publisher описывает публикацию события о созданном заказе в очередь.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// OrderService реализует операции над заказами.
type OrderService struct {
	repo      OrderRepository
	provider  PaymentProvider
	publisher Publisher
	log       *slog.Logger
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(repo OrderRepository, provider PaymentProvider, publisher Publisher, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		log:       log,
	}
}

// Create создает заказ из снимка позиций. Сумма пересчитывается на сервере,
// значение из запроса игнорируется. Для онлайн-оплаты создается платеж у
// провайдера, при оплате наличными провайдер не вызывается. Публикация
// события в очередь не влияет на результат: заказ уже сохранен.
func (s *OrderService) Create(ctx context.Context, dummy models.DummyOrder) (*models.Order, error) {
	const op = "services.order.Create"

	if len(dummy.Items) == 0 {
		return nil, ErrEmptyCart
	}
	method := models.PaymentMethod(dummy.PaymentMethod)
	if !models.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayment, dummy.PaymentMethod)
	}

	items := make([]models.CartItem, len(dummy.Items))
	copy(items, dummy.Items)

	now := time.Now().UTC()
	order := models.Order{
		ID:              models.NewOrderID(now),
		Items:           items,
		UtensilsCount:   dummy.UtensilsCount,
		PaymentMethod:   method,
		DeliveryType:    models.DeliveryType(dummy.DeliveryType),
		DeliveryAddress: dummy.DeliveryAddress,
		DeliveryTime:    dummy.DeliveryTime,
		Comments:        dummy.Comments,
		Status:          models.StatusPending,
		UserUID:         dummy.UserID,
		UserName:        dummy.UserName,
		UserPhone:       dummy.UserPhone,
		CreatedAt:       now,
	}
	cart := models.Cart{Items: items}
	order.Total = cart.Total()

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.OrdersCreated.Inc()

	if method.Online() {
		payment, err := s.provider.CreateOrderPayment(order.ID, order.Total, method)
		if err != nil {
			// Заказ уже сохранен, ошибка ответа превратила бы повтор
			// запроса в дубликат заказа.
			s.log.Error("failed to create provider payment", slog.String("order_id", order.ID), sl.Err(err))
			order.PaymentStatus = paymentprovider.StatusFailed
			if _, err := s.repo.UpdateOrderPayment(ctx, order.ID, "", "", order.PaymentStatus); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		} else {
			order.PaymentID = payment.ID
			order.PaymentURL = payment.Confirmation.ConfirmationURL
			order.PaymentStatus = payment.Status
			if _, err := s.repo.UpdateOrderPayment(ctx, order.ID, order.PaymentID, order.PaymentURL, order.PaymentStatus); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	s.publishCreated(order)

	return &order, nil
}

func (s *OrderService) publishCreated(order models.Order) {
	event := models.OrderEvent{
		OrderID:      order.ID,
		Total:        order.Total,
		Items:        order.Items,
		DeliveryType: order.DeliveryType,
		UserPhone:    order.UserPhone,
		CreatedAt:    order.CreatedAt,
	}
	if err := s.publisher.Publish("order.created", event); err != nil {
		s.log.Error("failed to publish order event", slog.String("order_id", order.ID), sl.Err(err))
	}
}

// Get возвращает заказ по идентификатору.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	const op = "services.order.Get"

	order, err := s.repo.ReadOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List возвращает заказы, новые первыми.
func (s *OrderService) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	const op = "services.order.List"

	if limit <= 0 {
		limit = 100
	}
	orders, err := s.repo.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// UpdateStatus переводит заказ в новый статус. Переходы ограничены таблицей
// жизненного цикла, недопустимый переход отклоняется без изменения заказа.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	const op = "services.order.UpdateStatus"

	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	count, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, ErrOrderNotFound
	}

	s.log.Info("order status updated",
		slog.String("order_id", id),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)))

	order.Status = status
	return order, nil
}

// Cancel отменяет заказ. Повторная отмена идемпотентна: заказ возвращается
// без изменений, первая причина сохраняется.
func (s *OrderService) Cancel(ctx context.Context, id, reason string) (*models.Order, error) {
	const op = "services.order.Cancel"

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusCancelled {
		return order, nil
	}
	if !models.CanTransition(order.Status, models.StatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.StatusCancelled)
	}

	if reason == "" {
		reason = models.DefaultCancelReason
	}
	now := time.Now().UTC()
	order.Status = models.StatusCancelled
	order.CancelReason = reason
	order.CancelledAt = &now

	count, err := s.repo.CancelOrder(ctx, *order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, ErrOrderNotFound
	}

	s.log.Info("order cancelled", slog.String("order_id", id), slog.String("reason", reason))

	return order, nil
}

// ProcessPaymentEvent обрабатывает уведомление провайдера об изменении
// статуса платежа. Неизвестные события игнорируются.
func (s *OrderService) ProcessPaymentEvent(ctx context.Context, event, paymentID, paymentStatus string) error {
	const op = "services.order.ProcessPaymentEvent"

	order, err := s.repo.ReadOrderByPaymentID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if order == nil {
		return ErrOrderNotFound
	}

	switch event {
	case "payment.succeeded":
		if _, err := s.repo.UpdateOrderPayment(ctx, order.ID, order.PaymentID, order.PaymentURL, paymentprovider.StatusSucceeded); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("order payment succeeded", slog.String("order_id", order.ID), slog.String("payment_id", paymentID))
	case "payment.canceled":
		if _, err := s.repo.UpdateOrderPayment(ctx, order.ID, order.PaymentID, order.PaymentURL, paymentprovider.StatusCanceled); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err := s.Cancel(ctx, order.ID, "Платеж отменен"); err != nil {
			// Провайдер повторяет уведомление при ошибке ответа, поэтому
			// завершенный заказ не считается сбоем обработки.
			if !errors.Is(err, ErrInvalidTransition) {
				return fmt.Errorf("%s: %w", op, err)
			}
			s.log.Warn("payment canceled for finished order",
				slog.String("order_id", order.ID), slog.String("status", string(order.Status)))
		}
	default:
		s.log.Warn("unknown payment event", slog.String("event", event), slog.String("payment_status", paymentStatus))
	}
	return nil
}
