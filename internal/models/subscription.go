package models

import "time"

// SubscriptionRecord представляет запись журнала покупок премиум-подписки.
// Журнал только пополняется и обратно бизнес-логикой не читается.
type SubscriptionRecord struct {
	ID         int       `json:"id"`
	UserEmail  string    `json:"user_email"`
	PriceCents int       `json:"price_cents"`
	TakenAt    time.Time `json:"taken_at"`
}

// DummySubscription используется для приёма данных из JSON-запроса на запись покупки.
type DummySubscription struct {
	PriceCents int `json:"price_cents" validate:"required,gt=0"` // Цена в центах (>0)
	PeriodDays int `json:"period_days" validate:"required,gt=0"` // Длительность подписки в днях (>0)
}

// DummyPaymentIntent используется для приёма данных из JSON-запроса на создание платежа.
type DummyPaymentIntent struct {
	PriceCents int `json:"price_cents" validate:"required,gt=0"` // Сумма платежа в центах (>0)
}

// ExpiredPremiumEvent публикуется в очередь уведомлений для каждого пользователя,
// у которого фоновая очистка сбросила истёкший премиум.
type ExpiredPremiumEvent struct {
	Email     string    `json:"email"`
	ExpiredAt time.Time `json:"expired_at"`
}
