// Package publisher содержит бизнес-логику справочника издателей.
// Список издателей только пополняется.
package publisher

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// ErrExists возвращается при попытке добавить издателя с занятым названием.
var ErrExists = errors.New("publisher already exists")

// PublisherRepository описывает контракт для работы с издателями в хранилище.
type PublisherRepository interface {
	// CreatePublisher добавляет издателя и возвращает его ID.
	CreatePublisher(ctx context.Context, p models.Publisher) (int, error)
	// ListPublishers возвращает всех издателей.
	ListPublishers(ctx context.Context) ([]*models.Publisher, error)
}

// PublisherService реализует операции справочника издателей.
type PublisherService struct {
	repo PublisherRepository
	log  *slog.Logger
}

// NewPublisherService создает новый экземпляр PublisherService.
func NewPublisherService(repo PublisherRepository, log *slog.Logger) *PublisherService {
	return &PublisherService{
		repo: repo,
		log:  log,
	}
}

// Create добавляет нового издателя и возвращает его ID.
func (s *PublisherService) Create(ctx context.Context, req models.DummyPublisher) (int, error) {
	id, err := s.repo.CreatePublisher(ctx, models.Publisher{
		Name:    req.Name,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrExists
		}
		return 0, err
	}
	s.log.Info("created new publisher", slog.Int("id", id), slog.String("name", req.Name))
	return id, nil
}

// List возвращает всех издателей.
func (s *PublisherService) List(ctx context.Context) ([]*models.Publisher, error) {
	return s.repo.ListPublishers(ctx)
}
