// Package sweeper реализует фоновую очистку истёкших премиум-подписок.
// Очистка запускается по таймеру, не зависит от обработки запросов
// и при ошибке хранилища просто ждёт следующего тика.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/primescope-news/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/models"
)

var premiumResetTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sweeper_premium_reset_total",
	Help: "Users whose expired premium subscription was reset by the sweeper.",
})

// UserRepository описывает контракт очистки для справочника пользователей.
type UserRepository interface {
	// ResetExpiredPremium сбрасывает премиум всем, у кого он истёк к now,
	// и возвращает их почты.
	ResetExpiredPremium(ctx context.Context, now time.Time) ([]string, error)
}

// SweeperService выполняет периодическую очистку истёкших премиум-подписок.
type SweeperService struct {
	repo    UserRepository
	log     *slog.Logger
	channel *amqp.Channel // nil, если брокер уведомлений не настроен
}

// NewSweeperService создает новый экземпляр SweeperService.
// channel может быть nil: тогда уведомления не публикуются.
func NewSweeperService(repo UserRepository, log *slog.Logger, channel *amqp.Channel) *SweeperService {
	return &SweeperService{
		repo:    repo,
		log:     log,
		channel: channel,
	}
}

// Run выполняет очистку сразу при старте и дальше раз в interval,
// пока контекст не будет отменён. Ошибки одного прохода не прерывают
// цикл: следующий тик повторит попытку. Пропущенные проходы не навёрстываются.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	s.runSweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

// runSweep один проход очистки: единым запросом сбрасывает премиум всем,
// у кого он истёк, и возвращает количество затронутых пользователей.
func (s *SweeperService) runSweep(ctx context.Context) int {
	s.log.Info("starting premium expiry sweep")
	now := time.Now().UTC()

	emails, err := s.repo.ResetExpiredPremium(ctx, now)
	if err != nil {
		s.log.Error("sweep failed", sl.Err(err))
		return 0
	}
	if len(emails) == 0 {
		s.log.Info("no expired premium subscriptions found")
		return 0
	}

	premiumResetTotal.Add(float64(len(emails)))
	s.log.Info("reset expired premium subscriptions", slog.Int("count", len(emails)))

	if s.channel != nil {
		for _, email := range emails {
			event := models.ExpiredPremiumEvent{Email: email, ExpiredAt: now}
			if err := rabbitmq.PublishMessage(s.channel, "notifications", "premium-expired", event); err != nil {
				s.log.Error("failed to publish message", sl.Err(err))
			}
		}
	}
	return len(emails)
}
