// Package models содержит доменные структуры ресторанного заказа:
// блюда, категории, корзину, заказы, пользователей и ресторан,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

// Dish представляет блюдо меню.
type Dish struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	Available   bool     `json:"available"`
	Weight      string   `json:"weight,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// DummyDish используется для приёма данных блюда из JSON-запроса
// до их валидации и сохранения.
type DummyDish struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category" validate:"required"`
	Available   bool     `json:"available"`
	Weight      string   `json:"weight"`
	Ingredients []string `json:"ingredients"`
}

// Category представляет категорию меню. Поле SortOrder задаёт порядок показа.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	Visible   bool   `json:"visible"`
}

// DummyCategory используется для приёма данных категории из JSON-запроса.
type DummyCategory struct {
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"sort_order"`
	Visible   bool   `json:"visible"`
}
