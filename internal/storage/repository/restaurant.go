package repository

import (
	"context"
	"fmt"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// GetRestaurant возвращает единственную запись с данными ресторана.
func (s *Storage) GetRestaurant(ctx context.Context) (*models.Restaurant, error) {
	const op = "storage.GetRestaurant"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT name, address, phone, working_hours, pickup_window,
			      delivery_window, logo_url
			  FROM restaurant
			  WHERE id = 1`
	var r models.Restaurant
	row := s.DB.QueryRowContext(ctx, query)
	if err := row.Scan(&r.Name, &r.Address, &r.Phone, &r.WorkingHours,
		&r.PickupWindow, &r.DeliveryWindow, &r.LogoURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// UpdateRestaurant обновляет данные ресторана.
func (s *Storage) UpdateRestaurant(ctx context.Context, r models.Restaurant) (int, error) {
	const op = "storage.UpdateRestaurant"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE restaurant
			  SET name = $1, address = $2, phone = $3, working_hours = $4,
			      pickup_window = $5, delivery_window = $6, logo_url = $7
			  WHERE id = 1`
	result, err := s.DB.ExecContext(ctx, query,
		r.Name, r.Address, r.Phone, r.WorkingHours, r.PickupWindow,
		r.DeliveryWindow, r.LogoURL)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
