// Package services содержит бизнес-логику корзины. Корзина хранится
// JSON-блобом в key-value хранилище и принадлежит активной сессии.
package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkozyrev/food-ordering/internal/models"
)

const cartTTL = 7 * 24 * time.Hour

// ErrEmptyOwner возвращается при операции без идентификатора сессии.
var ErrEmptyOwner = errors.New("cart owner is required")

// Cache описывает key-value хранилище корзин.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CartService реализует операции с корзиной.
type CartService struct {
	store Cache
	log   *slog.Logger
}

// NewCartService создает новый экземпляр CartService.
func NewCartService(store Cache, log *slog.Logger) *CartService {
	return &CartService{
		store: store,
		log:   log,
	}
}

func cartKey(owner string) string {
	return "cart:" + owner
}

// Get возвращает корзину владельца. Отсутствующая корзина считается пустой.
func (s *CartService) Get(owner string) (*models.Cart, error) {
	if owner == "" {
		return nil, ErrEmptyOwner
	}
	var cart models.Cart
	found, err := s.store.Get(cartKey(owner), &cart)
	if err != nil {
		return nil, err
	}
	if !found {
		return &models.Cart{}, nil
	}
	return &cart, nil
}

func (s *CartService) save(owner string, cart *models.Cart) error {
	if len(cart.Items) == 0 {
		return s.store.Invalidate(cartKey(owner))
	}
	return s.store.Set(cartKey(owner), cart, cartTTL)
}

// Add добавляет позицию в корзину. Повторное добавление того же блюда
// суммирует количество: дубликатов по DishID в корзине не бывает.
func (s *CartService) Add(owner string, item models.CartItem) (*models.Cart, error) {
	if item.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	cart, err := s.Get(owner)
	if err != nil {
		return nil, err
	}

	if i := cart.Find(item.DishID); i >= 0 {
		cart.Items[i].Quantity += item.Quantity
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity устанавливает количество позиции.
// Нулевое количество эквивалентно удалению позиции.
func (s *CartService) UpdateQuantity(owner string, dishID int64, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}
	if quantity == 0 {
		return s.Remove(owner, dishID)
	}

	cart, err := s.Get(owner)
	if err != nil {
		return nil, err
	}
	i := cart.Find(dishID)
	if i < 0 {
		return nil, fmt.Errorf("dish %d is not in the cart", dishID)
	}
	cart.Items[i].Quantity = quantity

	if err := s.save(owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove удаляет позицию из корзины. Отсутствующая позиция не считается ошибкой.
func (s *CartService) Remove(owner string, dishID int64) (*models.Cart, error) {
	cart, err := s.Get(owner)
	if err != nil {
		return nil, err
	}
	i := cart.Find(dishID)
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.save(owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear очищает корзину владельца.
func (s *CartService) Clear(owner string) error {
	if owner == "" {
		return ErrEmptyOwner
	}
	return s.store.Invalidate(cartKey(owner))
}

// Total возвращает сумму корзины.
func (s *CartService) Total(owner string) (float64, error) {
	cart, err := s.Get(owner)
	if err != nil {
		return 0, err
	}
	return cart.Total(), nil
}
