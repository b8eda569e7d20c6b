package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// CreateOrder вставляет новый заказ. Позиции хранятся сериализованным JSON.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) error {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO orders (id, items, total, utensils_count, payment_method,
			      delivery_type, delivery_address, delivery_time, comments, status,
			      payment_id, payment_url, payment_status, user_uid, user_name,
			      user_phone, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = s.DB.ExecContext(ctx, query,
		order.ID, string(items), order.Total, order.UtensilsCount, order.PaymentMethod,
		order.DeliveryType, order.DeliveryAddress, order.DeliveryTime, order.Comments,
		order.Status, order.PaymentID, order.PaymentURL, order.PaymentStatus,
		order.UserUID, order.UserName, order.UserPhone, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const orderColumns = `id, items, total, utensils_count, payment_method, delivery_type,
		delivery_address, delivery_time, comments, status, cancel_reason, cancelled_at,
		payment_id, payment_url, payment_status, user_uid, user_name, user_phone, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var items string
	var cancelledAt sql.NullTime
	if err := row.Scan(&o.ID, &items, &o.Total, &o.UtensilsCount, &o.PaymentMethod,
		&o.DeliveryType, &o.DeliveryAddress, &o.DeliveryTime, &o.Comments, &o.Status,
		&o.CancelReason, &cancelledAt, &o.PaymentID, &o.PaymentURL, &o.PaymentStatus,
		&o.UserUID, &o.UserName, &o.UserPhone, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		o.CancelledAt = &cancelledAt.Time
	}
	return &o, nil
}

// ReadOrder возвращает заказ по ID.
func (s *Storage) ReadOrder(ctx context.Context, id string) (*models.Order, error) {
	const op = "storage.ReadOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// ReadOrderByPaymentID возвращает заказ по идентификатору платежа провайдера.
func (s *Storage) ReadOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	const op = "storage.ReadOrderByPaymentID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_id = $1`
	order, err := scanOrder(s.DB.QueryRowContext(ctx, query, paymentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// ListOrders возвращает заказы, новые первыми, с пагинацией.
func (s *Storage) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateOrderStatus обновляет статус заказа и возвращает количество изменённых строк.
// Последняя запись побеждает: версионирования нет.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (int, error) {
	const op = "storage.UpdateOrderStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CancelOrder помечает заказ отменённым с причиной и временем отмены.
func (s *Storage) CancelOrder(ctx context.Context, order models.Order) (int, error) {
	const op = "storage.CancelOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders
			  SET status = $1, cancel_reason = $2, cancelled_at = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		models.StatusCancelled, order.CancelReason, order.CancelledAt, order.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateOrderPayment обновляет платёжные данные заказа.
func (s *Storage) UpdateOrderPayment(ctx context.Context, id, paymentID, paymentURL, paymentStatus string) (int, error) {
	const op = "storage.UpdateOrderPayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders
			  SET payment_id = $1, payment_url = $2, payment_status = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, paymentID, paymentURL, paymentStatus, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
