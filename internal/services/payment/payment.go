// Package payment содержит логику покупки премиум-подписки:
// создание платежа у провайдера, запись в журнал покупок
// и активацию премиума через справочник пользователей.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/paymentprovider"
)

// SubscriptionRepository описывает журнал покупок премиум-подписки.
type SubscriptionRepository interface {
	// CreateSubscriptionRecord добавляет запись журнала и возвращает её ID.
	CreateSubscriptionRecord(ctx context.Context, record models.SubscriptionRecord) (int, error)
}

// PremiumActivator включает премиум-подписку пользователю.
type PremiumActivator interface {
	ActivatePremium(ctx context.Context, email string, periodDays int) (time.Time, error)
}

// IntentCreator создаёт платёж у провайдера.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amountCents int, currency string) (*paymentprovider.CreatePaymentIntentResponse, error)
}

// PaymentService реализует платёжные операции.
type PaymentService struct {
	repo     SubscriptionRepository
	users    PremiumActivator
	provider IntentCreator
	currency string
	log      *slog.Logger
}

// New создает новый экземпляр PaymentService.
func New(repo SubscriptionRepository, users PremiumActivator,
	provider IntentCreator, currency string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		users:    users,
		provider: provider,
		currency: currency,
		log:      log,
	}
}

// CreateIntent создаёт платёж у провайдера и возвращает client secret,
// по которому клиент завершает оплату.
func (s *PaymentService) CreateIntent(ctx context.Context, priceCents int) (string, error) {
	resp, err := s.provider.CreatePaymentIntent(ctx, priceCents, s.currency)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	s.log.Info("created payment intent", slog.String("id", resp.ID))
	return resp.ClientSecret, nil
}

// Subscribe записывает покупку в журнал и активирует премиум пользователю.
// Журнал только пополняется и обратно бизнес-логикой не читается.
func (s *PaymentService) Subscribe(ctx context.Context, email string, req models.DummySubscription) (time.Time, error) {
	record := models.SubscriptionRecord{
		UserEmail:  email,
		PriceCents: req.PriceCents,
		TakenAt:    time.Now().UTC(),
	}
	if _, err := s.repo.CreateSubscriptionRecord(ctx, record); err != nil {
		return time.Time{}, fmt.Errorf("failed to record subscription: %w", err)
	}

	expiration, err := s.users.ActivatePremium(ctx, email, req.PeriodDays)
	if err != nil {
		return time.Time{}, err
	}
	s.log.Info("premium subscription purchased",
		slog.String("email", email),
		slog.Int("price_cents", req.PriceCents))
	return expiration, nil
}
