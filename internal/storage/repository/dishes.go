package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// CreateDish вставляет новое блюдо и возвращает его ID.
func (s *Storage) CreateDish(ctx context.Context, dish models.Dish) (int64, error) {
	const op = "storage.CreateDish"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	ingredients, err := json.Marshal(dish.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO dishes (name, description, price, image_url, category, available,
			      weight, ingredients)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	err = s.DB.QueryRowContext(ctx, query,
		dish.Name, dish.Description, dish.Price, dish.ImageURL, dish.Category,
		dish.Available, dish.Weight, string(ingredients)).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListDishes возвращает все блюда в порядке добавления.
func (s *Storage) ListDishes(ctx context.Context) ([]*models.Dish, error) {
	const op = "storage.ListDishes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, image_url, category, available,
			      weight, ingredients
			  FROM dishes
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Dish
	for rows.Next() {
		var item models.Dish
		var ingredients string
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price,
			&item.ImageURL, &item.Category, &item.Available, &item.Weight, &ingredients); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ingredients != "" {
			if err := json.Unmarshal([]byte(ingredients), &item.Ingredients); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadDish возвращает блюдо по ID.
func (s *Storage) ReadDish(ctx context.Context, id int64) (*models.Dish, error) {
	const op = "storage.ReadDish"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, image_url, category, available,
			      weight, ingredients
			  FROM dishes WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Dish
	var ingredients string
	if err := row.Scan(&result.ID, &result.Name, &result.Description, &result.Price,
		&result.ImageURL, &result.Category, &result.Available, &result.Weight, &ingredients); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ingredients != "" {
		if err := json.Unmarshal([]byte(ingredients), &result.Ingredients); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &result, nil
}

// UpdateDish обновляет блюдо по ID и возвращает количество изменённых строк.
func (s *Storage) UpdateDish(ctx context.Context, id int64, dish models.Dish) (int, error) {
	const op = "storage.UpdateDish"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	ingredients, err := json.Marshal(dish.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE dishes
			  SET name = $1, description = $2, price = $3, image_url = $4,
			      category = $5, available = $6, weight = $7, ingredients = $8
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		dish.Name, dish.Description, dish.Price, dish.ImageURL, dish.Category,
		dish.Available, dish.Weight, string(ingredients), id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetDishAvailability переключает доступность блюда, не трогая остальные поля.
func (s *Storage) SetDishAvailability(ctx context.Context, id int64, available bool) (int, error) {
	const op = "storage.SetDishAvailability"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE dishes SET available = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, available, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveDish удаляет блюдо по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveDish(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveDish"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM dishes WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
