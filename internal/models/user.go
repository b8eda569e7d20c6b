package models

import "time"

// User представляет пользователя системы: покупателя, подтвердившего
// телефон по SMS, либо администратора ресторана.
type User struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	Addresses []string  `json:"addresses"`
	CreatedAt time.Time `json:"created_at"`
}

// AddAddress добавляет адрес в список сохранённых без дубликатов.
func (u *User) AddAddress(addr string) {
	if addr == "" {
		return
	}
	for _, a := range u.Addresses {
		if a == addr {
			return
		}
	}
	u.Addresses = append(u.Addresses, addr)
}

// DummyProfileUpdate используется для приёма правок профиля из JSON-запроса.
type DummyProfileUpdate struct {
	Name      string   `json:"name"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Addresses []string `json:"addresses"`
}
