// Package services содержит бизнес-логику каталога: блюда и категории меню
// с кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// Ключи кеша каталога.
const (
	cacheKeyDishes     = "catalog:dishes"
	cacheKeyCategories = "catalog:categories"
	cacheTTL           = time.Hour
)

// CatalogRepository определяет методы хранилища для блюд и категорий.
type CatalogRepository interface {
	CreateDish(ctx context.Context, dish models.Dish) (int64, error)
	ListDishes(ctx context.Context) ([]*models.Dish, error)
	ReadDish(ctx context.Context, id int64) (*models.Dish, error)
	UpdateDish(ctx context.Context, id int64, dish models.Dish) (int, error)
	SetDishAvailability(ctx context.Context, id int64, available bool) (int, error)
	RemoveDish(ctx context.Context, id int64) (int, error)

	CreateCategory(ctx context.Context, category models.Category) (int64, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, category models.Category) (int, error)
	RemoveCategory(ctx context.Context, id int64) (int, error)
	ReorderCategories(ctx context.Context, ids []int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService реализует операции каталога поверх хранилища и кеша.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *CatalogService) invalidate(key string) {
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
	}
}

// CreateDish добавляет блюдо и возвращает его ID.
func (s *CatalogService) CreateDish(ctx context.Context, req models.DummyDish) (int64, error) {
	dish := models.Dish{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
		Weight:      req.Weight,
		Ingredients: req.Ingredients,
	}
	id, err := s.repo.CreateDish(ctx, dish)
	if err != nil {
		return 0, err
	}
	s.invalidate(cacheKeyDishes)
	s.log.Info("created dish", slog.Int64("id", id), slog.String("name", dish.Name))
	return id, nil
}

// ListDishes возвращает все блюда, используя кеш или хранилище.
func (s *CatalogService) ListDishes(ctx context.Context) ([]*models.Dish, error) {
	var cached []*models.Dish
	found, err := s.cache.Get(cacheKeyDishes, &cached)
	if err != nil {
		s.log.Warn("dish cache read failed", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	dishes, err := s.repo.ListDishes(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKeyDishes, dishes, cacheTTL); err != nil {
		s.log.Warn("failed to cache dishes", slog.Any("err", err))
	}
	return dishes, nil
}

// UpdateDish обновляет блюдо. Исторические заказы не затрагиваются:
// их позиции хранятся снимками.
func (s *CatalogService) UpdateDish(ctx context.Context, id int64, req models.DummyDish) error {
	dish := models.Dish{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
		Weight:      req.Weight,
		Ingredients: req.Ingredients,
	}
	count, err := s.repo.UpdateDish(ctx, id, dish)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("dish %d not found", id)
	}
	s.invalidate(cacheKeyDishes)
	return nil
}

// ToggleDishAvailability переключает доступность блюда, не удаляя запись.
func (s *CatalogService) ToggleDishAvailability(ctx context.Context, id int64) (bool, error) {
	dish, err := s.repo.ReadDish(ctx, id)
	if err != nil {
		return false, err
	}
	next := !dish.Available
	if _, err := s.repo.SetDishAvailability(ctx, id, next); err != nil {
		return false, err
	}
	s.invalidate(cacheKeyDishes)
	s.log.Info("toggled dish availability", slog.Int64("id", id), slog.Bool("available", next))
	return next, nil
}

// RemoveDish удаляет блюдо.
func (s *CatalogService) RemoveDish(ctx context.Context, id int64) error {
	count, err := s.repo.RemoveDish(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("dish %d not found", id)
	}
	s.invalidate(cacheKeyDishes)
	return nil
}

// CreateCategory добавляет категорию меню.
func (s *CatalogService) CreateCategory(ctx context.Context, req models.DummyCategory) (int64, error) {
	id, err := s.repo.CreateCategory(ctx, models.Category{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		Visible:   req.Visible,
	})
	if err != nil {
		return 0, err
	}
	s.invalidate(cacheKeyCategories)
	return id, nil
}

// ListCategories возвращает категории в порядке показа.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var cached []*models.Category
	found, err := s.cache.Get(cacheKeyCategories, &cached)
	if err != nil {
		s.log.Warn("category cache read failed", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKeyCategories, categories, cacheTTL); err != nil {
		s.log.Warn("failed to cache categories", slog.Any("err", err))
	}
	return categories, nil
}

// UpdateCategory обновляет категорию.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, req models.DummyCategory) error {
	count, err := s.repo.UpdateCategory(ctx, id, models.Category{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		Visible:   req.Visible,
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("category %d not found", id)
	}
	s.invalidate(cacheKeyCategories)
	return nil
}

// RemoveCategory удаляет категорию.
func (s *CatalogService) RemoveCategory(ctx context.Context, id int64) error {
	count, err := s.repo.RemoveCategory(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("category %d not found", id)
	}
	s.invalidate(cacheKeyCategories)
	return nil
}

// ReorderCategories переназначает порядок показа целиком по списку ID.
// Одновременные вызовы не согласуются между собой: побеждает последний.
func (s *CatalogService) ReorderCategories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("empty category sequence")
	}
	if err := s.repo.ReorderCategories(ctx, ids); err != nil {
		return err
	}
	s.invalidate(cacheKeyCategories)
	s.log.Info("reordered categories", slog.Int("count", len(ids)))
	return nil
}
