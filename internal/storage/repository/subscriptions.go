package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// CreateSubscriptionRecord добавляет запись в журнал покупок премиум-подписки
// и возвращает её ID. Журнал только пополняется.
func (s *Storage) CreateSubscriptionRecord(ctx context.Context, record models.SubscriptionRecord) (int, error) {
	const op = "storage.CreateSubscriptionRecord"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_email, price_cents, taken_at)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query,
		record.UserEmail, record.PriceCents, record.TakenAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CountSubscriptionRecordsSince подсчитывает покупки, совершённые после момента since.
// Используется только в диагностике и тестах, бизнес-логика журнал не читает.
func (s *Storage) CountSubscriptionRecordsSince(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.CountSubscriptionRecordsSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM subscriptions WHERE taken_at >= $1`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
