// Package models содержит доменную модель пользователя новостной платформы,
// включающую данные учётной записи, роль и окно премиум-подписки.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID               string     `json:"uid"`                          // Уникальный идентификатор пользователя
	Email             string     `json:"email"`                        // Электронная почта (уникальная)
	Name              string     `json:"name"`                         // Отображаемое имя
	PhotoURL          string     `json:"photo_url,omitempty"`          // Ссылка на аватар
	Role              string     `json:"role"`                         // Роль пользователя, admin или user
	IsPremium         bool       `json:"is_premium"`                   // Активна ли премиум-подписка
	PremiumTaken      *time.Time `json:"premium_taken,omitempty"`      // Дата активации премиума
	PremiumExpiration *time.Time `json:"premium_expiration,omitempty"` // Дата истечения премиума
	PremiumPeriodDays *int       `json:"premium_period_days,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// HasActivePremium сообщает, действует ли премиум-подписка на момент now.
func (u *User) HasActivePremium(now time.Time) bool {
	return u.IsPremium && u.PremiumExpiration != nil && u.PremiumExpiration.After(now)
}

// DummyUser используется для приёма данных из JSON-запроса на сохранение пользователя.
type DummyUser struct {
	Email    string `json:"email" validate:"required,email"` // Электронная почта
	Name     string `json:"name" validate:"required"`        // Отображаемое имя
	PhotoURL string `json:"photo_url,omitempty" validate:"omitempty"`
}

// DummyProfile используется для приёма данных из JSON-запроса на обновление профиля.
// Пустые поля не затирают сохранённые значения.
type DummyProfile struct {
	Name     string `json:"name,omitempty" validate:"omitempty"`
	PhotoURL string `json:"photo_url,omitempty" validate:"omitempty"`
}

// DummyPremium используется для приёма данных из JSON-запроса на активацию премиума.
type DummyPremium struct {
	PeriodDays int `json:"period_days" validate:"required,gt=0"` // Длительность подписки в днях (>0)
}
