// Package services содержит бизнес-логику данных ресторана.
// Ресторан один, запись в хранилище единственная.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
)

const cacheKeyRestaurant = "restaurant:info"

// RestaurantRepository описывает методы хранилища данных ресторана.
type RestaurantRepository interface {
	GetRestaurant(ctx context.Context) (*models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, r models.Restaurant) (int, error)
}

// Cache описывает key-value кэш.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// RestaurantService реализует чтение и обновление данных ресторана.
type RestaurantService struct {
	repo  RestaurantRepository
	cache Cache
	log   *slog.Logger
}

// NewRestaurantService создает новый экземпляр RestaurantService.
func NewRestaurantService(repo RestaurantRepository, cache Cache, log *slog.Logger) *RestaurantService {
	return &RestaurantService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Get возвращает данные ресторана.
func (s *RestaurantService) Get(ctx context.Context) (*models.Restaurant, error) {
	const op = "services.restaurant.Get"

	var cached models.Restaurant
	found, err := s.cache.Get(cacheKeyRestaurant, &cached)
	if err != nil {
		s.log.Warn("failed to read restaurant cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	restaurant, err := s.repo.GetRestaurant(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKeyRestaurant, restaurant, time.Hour); err != nil {
		s.log.Warn("failed to write restaurant cache", sl.Err(err))
	}
	return restaurant, nil
}

// Update обновляет данные ресторана и сбрасывает кэш.
func (s *RestaurantService) Update(ctx context.Context, r models.Restaurant) error {
	const op = "services.restaurant.Update"

	count, err := s.repo.UpdateRestaurant(ctx, r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: restaurant row is missing", op)
	}

	if err := s.cache.Invalidate(cacheKeyRestaurant); err != nil {
		s.log.Warn("failed to invalidate restaurant cache", sl.Err(err))
	}
	return nil
}
