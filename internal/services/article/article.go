// Package article содержит бизнес-логику жизненного цикла статьи:
// проверку права на публикацию, переходы статусов, премиум-флаг
// и счётчик просмотров.
package article

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// Ошибки бизнес-логики статей. Обработчики сопоставляют их с HTTP-статусами.
var (
	ErrNotFound       = errors.New("article not found")
	ErrInvalidID      = errors.New("invalid article id")
	ErrAuthorNotFound = errors.New("author not found")
	ErrQuotaExceeded  = errors.New("one free article per non-premium user")
)

// trendingSize размер подборки популярных статей.
const trendingSize = 6

// defaultPageSize размер страницы ленты, если клиент его не задал.
const defaultPageSize = 10

// ArticleRepository описывает методы для работы со статьями в хранилище.
type ArticleRepository interface {
	// CreateArticle вставляет статью без ограничений на количество.
	CreateArticle(ctx context.Context, a models.Article) error
	// CreateArticleIfAbsent вставляет статью, только если у автора ещё нет ни одной.
	CreateArticleIfAbsent(ctx context.Context, a models.Article) (int, error)
	// GetArticleByID возвращает статью по идентификатору.
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	// ListApprovedArticles возвращает страницу одобренных статей по фильтру.
	ListApprovedArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	// CountApprovedArticles подсчитывает одобренные статьи по фильтру без пагинации.
	CountApprovedArticles(ctx context.Context, filter models.ArticleFilter) (int, error)
	// UpdateArticle обновляет содержимое статьи.
	UpdateArticle(ctx context.Context, id string, upd models.DummyArticleUpdate, publisherLogo string) (int, error)
	// RegisterView атомарно увеличивает счётчик просмотров на единицу.
	RegisterView(ctx context.Context, id string) (int, error)
	// SetStatusApproved переводит статью в approved.
	SetStatusApproved(ctx context.Context, id string) (int, error)
	// SetStatusDeclined переводит статью в declined и записывает причину.
	SetStatusDeclined(ctx context.Context, id, reason string) (int, error)
	// SetPremiumFlag помечает статью как премиум.
	SetPremiumFlag(ctx context.Context, id string) (int, error)
	// DeleteArticle удаляет статью.
	DeleteArticle(ctx context.Context, id string) (int, error)
	// ListTrendingArticles возвращает одобренные статьи по убыванию просмотров.
	ListTrendingArticles(ctx context.Context, limit int) ([]*models.Article, error)
	// ListPremiumArticles возвращает одобренные премиум-статьи.
	ListPremiumArticles(ctx context.Context) ([]*models.Article, error)
	// ListArticlesByAuthor возвращает все статьи автора.
	ListArticlesByAuthor(ctx context.Context, authorEmail string) ([]*models.Article, error)
}

// UserDirectory даёт доступ только на чтение к справочнику пользователей,
// чтобы проверять право автора на публикацию.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PublisherDirectory даёт доступ на чтение к справочнику издателей
// для денормализованного снимка в статье.
type PublisherDirectory interface {
	GetPublisherByName(ctx context.Context, name string) (*models.Publisher, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ArticleService реализует бизнес-логику жизненного цикла статей, включая кеширование.
type ArticleService struct {
	repo       ArticleRepository
	users      UserDirectory
	publishers PublisherDirectory
	cache      Cache
	log        *slog.Logger
}

// NewArticleService создает новый экземпляр ArticleService.
func NewArticleService(repo ArticleRepository, users UserDirectory,
	publishers PublisherDirectory, cache Cache, log *slog.Logger) *ArticleService {
	return &ArticleService{
		repo:       repo,
		users:      users,
		publishers: publishers,
		cache:      cache,
		log:        log,
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("article:%s", id)
}

const trendingCacheKey = "articles:trending"

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// Create публикует новую статью от имени автора. Автор без активного премиума
// может иметь не больше одной статьи: проверка и вставка выполняются одним
// условным запросом, так что гонка двух одновременных публикаций не позволяет
// превысить квоту.
func (s *ArticleService) Create(ctx context.Context, authorEmail string, req models.DummyArticle) (string, error) {
	author, err := s.users.GetUserByEmail(ctx, authorEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAuthorNotFound
	}
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	a := models.Article{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Tags:          req.Tags,
		PublisherName: req.Publisher,
		PublisherLogo: s.publisherLogo(ctx, req.Publisher),
		AuthorEmail:   author.Email,
		AuthorName:    author.Name,
		AuthorPhoto:   author.PhotoURL,
		Status:        models.StatusPending,
		IsPremium:     false,
		Views:         0,
		PostedDate:    now,
	}

	if author.HasActivePremium(now) {
		if err := s.repo.CreateArticle(ctx, a); err != nil {
			return "", err
		}
	} else {
		inserted, err := s.repo.CreateArticleIfAbsent(ctx, a)
		if err != nil {
			return "", err
		}
		if inserted == 0 {
			return "", ErrQuotaExceeded
		}
	}

	s.log.Info("created new article",
		slog.String("id", a.ID),
		slog.String("author", author.Email))
	return a.ID, nil
}

// publisherLogo возвращает логотип издателя для снимка в статье.
// Неизвестный издатель не ошибка, снимок остаётся без логотипа.
func (s *ArticleService) publisherLogo(ctx context.Context, name string) string {
	if name == "" {
		return ""
	}
	p, err := s.publishers.GetPublisherByName(ctx, name)
	if err != nil {
		return ""
	}
	return p.LogoURL
}

// Get возвращает статью по идентификатору, используя кеш или репозиторий.
func (s *ArticleService) Get(ctx context.Context, id string) (*models.Article, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var result *models.Article
	key := cacheKey(id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetArticleByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, result, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache article", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// ListApproved возвращает страницу одобренных статей и общее количество
// подходящих под фильтр без учёта окна пагинации.
func (s *ArticleService) ListApproved(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, err := s.repo.ListApprovedArticles(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountApprovedArticles(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update применяет частичное обновление статьи. Идентификатор в теле запроса
// игнорируется: единственный источник — URL. Статус обновление не трогает.
func (s *ArticleService) Update(ctx context.Context, id string, req models.DummyArticleUpdate) error {
	if err := validateID(id); err != nil {
		return err
	}

	var publisherLogo string
	if req.Publisher != "" {
		publisherLogo = s.publisherLogo(ctx, req.Publisher)
	}

	count, err := s.repo.UpdateArticle(ctx, id, req, publisherLogo)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	return nil
}

// RegisterView увеличивает счётчик просмотров статьи ровно на единицу.
func (s *ArticleService) RegisterView(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	count, err := s.repo.RegisterView(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	return nil
}

// Approve переводит статью в статус approved. Записанная ранее причина
// отклонения не очищается: она остаётся историей до следующего отклонения.
func (s *ArticleService) Approve(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	count, err := s.repo.SetStatusApproved(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	s.log.Info("approved article", slog.String("id", id))
	return nil
}

// Decline переводит статью в статус declined и записывает причину.
func (s *ArticleService) Decline(ctx context.Context, id, reason string) error {
	if err := validateID(id); err != nil {
		return err
	}
	count, err := s.repo.SetStatusDeclined(ctx, id, reason)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	s.log.Info("declined article", slog.String("id", id), slog.String("reason", reason))
	return nil
}

// SetPremium помечает статью как премиум. Обратной операции нет.
func (s *ArticleService) SetPremium(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	count, err := s.repo.SetPremiumFlag(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	return nil
}

// Remove удаляет статью насовсем.
func (s *ArticleService) Remove(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	count, err := s.repo.DeleteArticle(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	return nil
}

// Trending возвращает шесть одобренных статей с наибольшим числом просмотров.
// Подборка кешируется на минуту.
func (s *ArticleService) Trending(ctx context.Context) ([]*models.Article, error) {
	var result []*models.Article
	found, err := s.cache.Get(trendingCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", trendingCacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListTrendingArticles(ctx, trendingSize)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(trendingCacheKey, result, time.Minute); err != nil {
		s.log.Warn("failed to cache trending", slog.Any("err", err))
	}
	return result, nil
}

// ListPremium возвращает все одобренные премиум-статьи.
func (s *ArticleService) ListPremium(ctx context.Context) ([]*models.Article, error) {
	return s.repo.ListPremiumArticles(ctx)
}

// ListMine возвращает все статьи автора независимо от статуса.
func (s *ArticleService) ListMine(ctx context.Context, authorEmail string) ([]*models.Article, error) {
	return s.repo.ListArticlesByAuthor(ctx, authorEmail)
}

func (s *ArticleService) invalidate(id string) {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("id", id), slog.Any("err", err))
	}
	if err := s.cache.Invalidate(trendingCacheKey); err != nil {
		s.log.Warn("failed to invalidate trending cache", slog.Any("err", err))
	}
}
