// Package models содержит доменные структуры, описывающие статью,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Статусы статьи. Новая статья всегда попадает в StatusPending,
// дальше админ переводит её в StatusApproved или StatusDeclined.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// Article представляет собой основную модель статьи,
// используемую в бизнес-логике и хранилище.
// Автор и издатель хранятся денормализованным снимком на момент создания,
// а не живой ссылкой на соответствующие записи.
type Article struct {
	ID            string    `json:"id"`                  // Уникальный идентификатор статьи (uuid)
	Title         string    `json:"title"`               // Заголовок
	Description   string    `json:"description"`         // Текст статьи
	ImageURL      string    `json:"image_url,omitempty"` // Ссылка на обложку
	Tags          []string  `json:"tags"`                // Набор тегов
	PublisherName string    `json:"publisher_name"`      // Название издателя (снимок)
	PublisherLogo string    `json:"publisher_logo,omitempty"`
	AuthorEmail   string    `json:"author_email"` // Почта автора (снимок)
	AuthorName    string    `json:"author_name"`
	AuthorPhoto   string    `json:"author_photo,omitempty"`
	Status        string    `json:"status"`                   // pending | approved | declined
	DeclineReason *string   `json:"decline_reason,omitempty"` // Причина отклонения, nil пока не отклоняли
	IsPremium     bool      `json:"is_premium"`               // Премиум-флаг, ортогонален статусу
	Views         int64     `json:"views"`                    // Счётчик просмотров, только растёт
	PostedDate    time.Time `json:"posted_date"`              // Дата создания, не меняется
}

// DummyArticle используется для приёма данных из JSON-запроса на создание статьи.
type DummyArticle struct {
	Title       string   `json:"title" validate:"required"`       // Заголовок
	Description string   `json:"description" validate:"required"` // Текст статьи
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty"`
	Publisher   string   `json:"publisher" validate:"required"` // Название издателя
}

// DummyArticleUpdate используется для приёма частичного обновления статьи.
// Любое клиентское поле идентификатора отбрасывается до применения.
type DummyArticleUpdate struct {
	Title       string   `json:"title,omitempty" validate:"omitempty"`
	Description string   `json:"description,omitempty" validate:"omitempty"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty"`
	Publisher   string   `json:"publisher,omitempty" validate:"omitempty"`
}

// DummyDecline используется для приёма причины отклонения статьи.
type DummyDecline struct {
	Reason string `json:"reason" validate:"required"` // Причина отклонения
}
