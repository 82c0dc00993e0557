package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

const articleColumns = `id, title, description, image_url, array_to_string(tags, ','),
			  publisher_name, publisher_logo, author_email, author_name, author_photo,
			  status, decline_reason, is_premium, views, posted_date`

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	var tags string
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.ImageURL, &tags,
		&a.PublisherName, &a.PublisherLogo, &a.AuthorEmail, &a.AuthorName, &a.AuthorPhoto,
		&a.Status, &a.DeclineReason, &a.IsPremium, &a.Views, &a.PostedDate); err != nil {
		return nil, err
	}
	if tags != "" {
		a.Tags = strings.Split(tags, ",")
	}
	return a, nil
}

func (s *Storage) queryArticles(ctx context.Context, op, query string, args ...any) ([]*models.Article, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateArticle вставляет новую статью без ограничений на количество.
// Используется для премиум-авторов.
func (s *Storage) CreateArticle(ctx context.Context, a models.Article) error {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO articles (id, title, description, image_url, tags,
			      publisher_name, publisher_logo, author_email, author_name, author_photo,
			      status, is_premium, views, posted_date)
			  VALUES ($1, $2, $3, $4, string_to_array($5, ','), $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := s.DB.ExecContext(ctx, query,
		a.ID, a.Title, a.Description, a.ImageURL, strings.Join(a.Tags, ","),
		a.PublisherName, a.PublisherLogo, a.AuthorEmail, a.AuthorName, a.AuthorPhoto,
		a.Status, a.IsPremium, a.Views, a.PostedDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateArticleIfAbsent вставляет статью только если у автора ещё нет ни одной
// статьи. Проверка и вставка выполняются в одной транзакции под
// advisory-блокировкой по почте автора, поэтому два одновременных запроса
// одного автора не могут превысить квоту.
// Возвращает количество вставленных строк: 0 означает, что квота исчерпана.
func (s *Storage) CreateArticleIfAbsent(ctx context.Context, a models.Article) (int, error) {
	const op = "storage.CreateArticleIfAbsent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Под READ COMMITTED условный INSERT не видит незакоммиченную вставку
	// параллельной транзакции, поэтому вставки одного автора сериализуются.
	if _, err = tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, a.AuthorEmail); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO articles (id, title, description, image_url, tags,
			      publisher_name, publisher_logo, author_email, author_name, author_photo,
			      status, is_premium, views, posted_date)
			  SELECT $1, $2, $3, $4, string_to_array($5, ','), $6, $7, $8, $9, $10, $11, $12, $13, $14
			  WHERE NOT EXISTS (
			      SELECT 1 FROM articles WHERE author_email = $8
			  )`
	result, err := tx.ExecContext(ctx, query,
		a.ID, a.Title, a.Description, a.ImageURL, strings.Join(a.Tags, ","),
		a.PublisherName, a.PublisherLogo, a.AuthorEmail, a.AuthorName, a.AuthorPhoto,
		a.Status, a.IsPremium, a.Views, a.PostedDate)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetArticleByID возвращает статью по её идентификатору.
func (s *Storage) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage.GetArticleByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles
			  WHERE id = $1`
	a, err := scanArticle(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func buildApprovedFilter(filter models.ArticleFilter) (string, []any) {
	conditions := []string{"status = 'approved'"}
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.Publisher != "" {
		args = append(args, filter.Publisher)
		conditions = append(conditions, fmt.Sprintf("publisher_name = $%d", len(args)))
	}
	if len(filter.Tags) > 0 {
		args = append(args, strings.Join(filter.Tags, ","))
		conditions = append(conditions, fmt.Sprintf("tags && string_to_array($%d, ',')", len(args)))
	}
	return strings.Join(conditions, " AND "), args
}

// ListApprovedArticles возвращает страницу одобренных статей с учётом фильтра.
func (s *Storage) ListApprovedArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	const op = "storage.ListApprovedArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildApprovedFilter(filter)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT `+articleColumns+`
			  FROM articles
			  WHERE %s
			  ORDER BY posted_date DESC
			  LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	return s.queryArticles(ctx, op, query, args...)
}

// CountApprovedArticles подсчитывает все одобренные статьи под тем же фильтром,
// без учёта окна пагинации.
func (s *Storage) CountApprovedArticles(ctx context.Context, filter models.ArticleFilter) (int, error) {
	const op = "storage.CountApprovedArticles"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildApprovedFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM articles WHERE %s`, where)
	var total int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// UpdateArticle обновляет содержимое статьи, пустые поля не затирают
// сохранённые значения. Возвращает количество изменённых строк.
func (s *Storage) UpdateArticle(ctx context.Context, id string, upd models.DummyArticleUpdate, publisherLogo string) (int, error) {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET title = COALESCE(NULLIF($1, ''), title),
			      description = COALESCE(NULLIF($2, ''), description),
			      image_url = COALESCE(NULLIF($3, ''), image_url),
			      tags = CASE WHEN $4 = '' THEN tags ELSE string_to_array($4, ',') END,
			      publisher_name = COALESCE(NULLIF($5, ''), publisher_name),
			      publisher_logo = CASE WHEN $5 = '' THEN publisher_logo ELSE $6 END
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		upd.Title, upd.Description, upd.ImageURL, strings.Join(upd.Tags, ","),
		upd.Publisher, publisherLogo, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RegisterView атомарно увеличивает счётчик просмотров на единицу
// и возвращает количество изменённых строк.
func (s *Storage) RegisterView(ctx context.Context, id string) (int, error) {
	const op = "storage.RegisterView"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET views = views + 1
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetStatusApproved переводит статью в статус approved.
// Ранее записанная причина отклонения сохраняется как история.
func (s *Storage) SetStatusApproved(ctx context.Context, id string) (int, error) {
	const op = "storage.SetStatusApproved"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET status = $1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, models.StatusApproved, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetStatusDeclined переводит статью в статус declined и записывает причину.
func (s *Storage) SetStatusDeclined(ctx context.Context, id, reason string) (int, error) {
	const op = "storage.SetStatusDeclined"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET status = $1,
			      decline_reason = $2
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, models.StatusDeclined, reason, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetPremiumFlag помечает статью как премиум. Обратной операции нет.
func (s *Storage) SetPremiumFlag(ctx context.Context, id string) (int, error) {
	const op = "storage.SetPremiumFlag"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET is_premium = TRUE
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteArticle удаляет статью по идентификатору и возвращает
// количество удалённых строк.
func (s *Storage) DeleteArticle(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM articles WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListTrendingArticles возвращает одобренные статьи с наибольшим числом
// просмотров. Порядок статей с равными просмотрами не определён.
func (s *Storage) ListTrendingArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	const op = "storage.ListTrendingArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles
			  WHERE status = 'approved'
			  ORDER BY views DESC, posted_date DESC
			  LIMIT $1`
	return s.queryArticles(ctx, op, query, limit)
}

// ListPremiumArticles возвращает все одобренные премиум-статьи.
func (s *Storage) ListPremiumArticles(ctx context.Context) ([]*models.Article, error) {
	const op = "storage.ListPremiumArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles
			  WHERE status = 'approved' AND is_premium = TRUE
			  ORDER BY posted_date DESC`
	return s.queryArticles(ctx, op, query)
}

// ListArticlesByAuthor возвращает все статьи автора независимо от статуса.
func (s *Storage) ListArticlesByAuthor(ctx context.Context, authorEmail string) ([]*models.Article, error) {
	const op = "storage.ListArticlesByAuthor"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles
			  WHERE author_email = $1
			  ORDER BY posted_date DESC`
	return s.queryArticles(ctx, op, query, authorEmail)
}
