package models

// CartItem позиция корзины: снимок блюда и количество.
// Количество всегда >= 1, нулевое количество означает удаление позиции.
type CartItem struct {
	DishID   int64   `json:"dish_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart корзина активной сессии. Не содержит дубликатов по DishID.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total возвращает сумму корзины: сумма цена*количество по всем позициям.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Find возвращает индекс позиции с данным DishID или -1.
func (c *Cart) Find(dishID int64) int {
	for i, item := range c.Items {
		if item.DishID == dishID {
			return i
		}
	}
	return -1
}
