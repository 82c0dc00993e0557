package models

import "time"

// Publisher представляет издателя новостей. Список издателей только пополняется,
// операций обновления и удаления нет.
type Publisher struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyPublisher используется для приёма данных из JSON-запроса на добавление издателя.
type DummyPublisher struct {
	Name    string `json:"name" validate:"required"` // Название издателя
	LogoURL string `json:"logo_url,omitempty" validate:"omitempty"`
}
