package repository

import (
	"context"
	"fmt"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// CreateCategory вставляет новую категорию и возвращает её ID.
func (s *Storage) CreateCategory(ctx context.Context, category models.Category) (int64, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO categories (name, sort_order, visible)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		category.Name, category.SortOrder, category.Visible).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCategories возвращает категории в порядке поля sort_order.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, sort_order, visible
			  FROM categories
			  ORDER BY sort_order, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.Name, &item.SortOrder, &item.Visible); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCategory обновляет категорию по ID и возвращает количество изменённых строк.
func (s *Storage) UpdateCategory(ctx context.Context, id int64, category models.Category) (int, error) {
	const op = "storage.UpdateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE categories
			  SET name = $1, sort_order = $2, visible = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		category.Name, category.SortOrder, category.Visible, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCategory удаляет категорию по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveCategory(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM categories WHERE id = $1`
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

// ReorderCategories целиком переназначает порядок показа: каждой категории
// из списка присваивается её позиция. Выполняется в транзакции.
func (s *Storage) ReorderCategories(ctx context.Context, ids []int64) error {
	const op = "storage.ReorderCategories"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE categories SET sort_order = $1 WHERE id = $2`
	for pos, id := range ids {
		if _, err := tx.ExecContext(ctx, query, pos, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
