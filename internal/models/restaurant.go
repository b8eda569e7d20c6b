package models

// Restaurant единственная запись с данными ресторана.
type Restaurant struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	WorkingHours   string `json:"working_hours"`
	PickupWindow   string `json:"pickup_window"`
	DeliveryWindow string `json:"delivery_window"`
	LogoURL        string `json:"logo_url"`
}

// DummyRestaurant используется для приёма данных ресторана из JSON-запроса.
type DummyRestaurant struct {
	Name           string `json:"name" validate:"required"`
	Address        string `json:"address" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	WorkingHours   string `json:"working_hours"`
	PickupWindow   string `json:"pickup_window"`
	DeliveryWindow string `json:"delivery_window"`
	LogoURL        string `json:"logo_url"`
}
