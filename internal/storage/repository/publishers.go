package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// CreatePublisher вставляет нового издателя и возвращает его ID.
func (s *Storage) CreatePublisher(ctx context.Context, p models.Publisher) (int, error) {
	const op = "storage.CreatePublisher"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO publishers (name, logo_url)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, p.Name, p.LogoURL).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPublisherByName возвращает издателя по названию.
func (s *Storage) GetPublisherByName(ctx context.Context, name string) (*models.Publisher, error) {
	const op = "storage.GetPublisherByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, logo_url, created_at
			  FROM publishers
			  WHERE name = $1`
	p := &models.Publisher{}
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(
		&p.ID, &p.Name, &p.LogoURL, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPublishers возвращает всех издателей в порядке добавления.
func (s *Storage) ListPublishers(ctx context.Context) ([]*models.Publisher, error) {
	const op = "storage.ListPublishers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, logo_url, created_at
			  FROM publishers
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Publisher
	for rows.Next() {
		var p models.Publisher
		if err = rows.Scan(&p.ID, &p.Name, &p.LogoURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
