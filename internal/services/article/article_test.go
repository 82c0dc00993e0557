package article

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateArticle(ctx context.Context, a models.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) CreateArticleIfAbsent(ctx context.Context, a models.Article) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockRepository) ListApprovedArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *MockRepository) CountApprovedArticles(ctx context.Context, filter models.ArticleFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdateArticle(ctx context.Context, id string, upd models.DummyArticleUpdate, publisherLogo string) (int, error) {
	args := m.Called(ctx, id, upd, publisherLogo)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RegisterView(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) SetStatusApproved(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) SetStatusDeclined(ctx context.Context, id, reason string) (int, error) {
	args := m.Called(ctx, id, reason)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) SetPremiumFlag(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) DeleteArticle(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListTrendingArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *MockRepository) ListPremiumArticles(ctx context.Context) ([]*models.Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *MockRepository) ListArticlesByAuthor(ctx context.Context, authorEmail string) ([]*models.Article, error) {
	args := m.Called(ctx, authorEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPublisherDirectory struct {
	mock.Mock
}

func (m *MockPublisherDirectory) GetPublisherByName(ctx context.Context, name string) (*models.Publisher, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Publisher), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *MockRepository, users *MockUserDirectory,
	publishers *MockPublisherDirectory, cache *MockCache) *ArticleService {
	return NewArticleService(repo, users, publishers, cache, newNoopLogger())
}

func premiumUser(email string) *models.User {
	expiration := time.Now().UTC().Add(24 * time.Hour)
	return &models.User{
		UID:               uuid.New().String(),
		Email:             email,
		Name:              "premium author",
		Role:              models.RoleUser,
		IsPremium:         true,
		PremiumExpiration: &expiration,
	}
}

func regularUser(email string) *models.User {
	return &models.User{
		UID:   uuid.New().String(),
		Email: email,
		Name:  "regular author",
		Role:  models.RoleUser,
	}
}

func TestArticleService_Create(t *testing.T) {
	req := models.DummyArticle{
		Title:       "title",
		Description: "text",
		Publisher:   "Daily",
	}

	tests := []struct {
		name          string
		authorEmail   string
		setupMocks    func(*MockRepository, *MockUserDirectory, *MockPublisherDirectory)
		expectedError error
	}{
		{
			name:        "premium author bypasses quota",
			authorEmail: "premium@example.com",
			setupMocks: func(r *MockRepository, u *MockUserDirectory, p *MockPublisherDirectory) {
				u.On("GetUserByEmail", mock.Anything, "premium@example.com").
					Return(premiumUser("premium@example.com"), nil).Once()
				p.On("GetPublisherByName", mock.Anything, "Daily").
					Return(&models.Publisher{Name: "Daily", LogoURL: "logo.png"}, nil).Once()
				r.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Status == models.StatusPending && a.PublisherLogo == "logo.png"
				})).Return(nil).Once()
			},
		},
		{
			name:        "regular author first article",
			authorEmail: "regular@example.com",
			setupMocks: func(r *MockRepository, u *MockUserDirectory, p *MockPublisherDirectory) {
				u.On("GetUserByEmail", mock.Anything, "regular@example.com").
					Return(regularUser("regular@example.com"), nil).Once()
				p.On("GetPublisherByName", mock.Anything, "Daily").
					Return(&models.Publisher{Name: "Daily"}, nil).Once()
				r.On("CreateArticleIfAbsent", mock.Anything, mock.Anything).Return(1, nil).Once()
			},
		},
		{
			name:        "regular author quota exhausted",
			authorEmail: "regular@example.com",
			setupMocks: func(r *MockRepository, u *MockUserDirectory, p *MockPublisherDirectory) {
				u.On("GetUserByEmail", mock.Anything, "regular@example.com").
					Return(regularUser("regular@example.com"), nil).Once()
				p.On("GetPublisherByName", mock.Anything, "Daily").
					Return(&models.Publisher{Name: "Daily"}, nil).Once()
				r.On("CreateArticleIfAbsent", mock.Anything, mock.Anything).Return(0, nil).Once()
			},
			expectedError: ErrQuotaExceeded,
		},
		{
			name:        "expired premium treated as regular",
			authorEmail: "expired@example.com",
			setupMocks: func(r *MockRepository, u *MockUserDirectory, p *MockPublisherDirectory) {
				expired := premiumUser("expired@example.com")
				pastExpiration := time.Now().UTC().Add(-time.Hour)
				expired.PremiumExpiration = &pastExpiration
				u.On("GetUserByEmail", mock.Anything, "expired@example.com").
					Return(expired, nil).Once()
				p.On("GetPublisherByName", mock.Anything, "Daily").
					Return(&models.Publisher{Name: "Daily"}, nil).Once()
				r.On("CreateArticleIfAbsent", mock.Anything, mock.Anything).Return(0, nil).Once()
			},
			expectedError: ErrQuotaExceeded,
		},
		{
			name:        "unknown author",
			authorEmail: "ghost@example.com",
			setupMocks: func(_ *MockRepository, u *MockUserDirectory, _ *MockPublisherDirectory) {
				u.On("GetUserByEmail", mock.Anything, "ghost@example.com").
					Return(nil, sql.ErrNoRows).Once()
			},
			expectedError: ErrAuthorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			users := new(MockUserDirectory)
			publishers := new(MockPublisherDirectory)
			cache := new(MockCache)
			tt.setupMocks(repo, users, publishers)

			service := newService(repo, users, publishers, cache)
			id, err := service.Create(context.Background(), tt.authorEmail, req)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, id)
			} else {
				require.NoError(t, err)
				_, parseErr := uuid.Parse(id)
				assert.NoError(t, parseErr, "article id must be a uuid")
			}
			repo.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestArticleService_Get(t *testing.T) {
	id := uuid.New().String()

	t.Run("invalid id", func(t *testing.T) {
		service := newService(new(MockRepository), new(MockUserDirectory),
			new(MockPublisherDirectory), new(MockCache))

		_, err := service.Get(context.Background(), "not-a-uuid")
		require.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", "article:"+id, mock.Anything).Return(true, nil).Once()

		service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
		_, err := service.Get(context.Background(), id)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "GetArticleByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", "article:"+id, mock.Anything).Return(false, nil).Once()
		repo.On("GetArticleByID", mock.Anything, id).Return(nil, sql.ErrNoRows).Once()

		service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
		_, err := service.Get(context.Background(), id)

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("repository hit fills cache", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		stored := &models.Article{ID: id, Title: "cached"}
		cache.On("Get", "article:"+id, mock.Anything).Return(false, nil).Once()
		repo.On("GetArticleByID", mock.Anything, id).Return(stored, nil).Once()
		cache.On("Set", "article:"+id, stored, 5*time.Minute).Return(nil).Once()

		service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
		got, err := service.Get(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "cached", got.Title)
		cache.AssertExpectations(t)
	})
}

func TestArticleService_ListApproved(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListApprovedArticles", mock.Anything, mock.MatchedBy(func(f models.ArticleFilter) bool {
		return f.Limit == defaultPageSize && f.Offset == 0
	})).Return([]*models.Article{{ID: "1"}}, nil).Once()
	repo.On("CountApprovedArticles", mock.Anything, mock.Anything).Return(7, nil).Once()

	service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), new(MockCache))
	items, total, err := service.ListApproved(context.Background(), models.ArticleFilter{Limit: 0, Offset: -5})

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 7, total)
	repo.AssertExpectations(t)
}

func TestArticleService_ModerationTransitions(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name          string
		call          func(service *ArticleService) error
		setupMocks    func(*MockRepository, *MockCache)
		expectedError error
	}{
		{
			name: "approve success",
			call: func(s *ArticleService) error { return s.Approve(context.Background(), id) },
			setupMocks: func(r *MockRepository, c *MockCache) {
				r.On("SetStatusApproved", mock.Anything, id).Return(1, nil).Once()
				c.On("Invalidate", "article:"+id).Return(nil).Once()
				c.On("Invalidate", trendingCacheKey).Return(nil).Once()
			},
		},
		{
			name: "approve unknown article",
			call: func(s *ArticleService) error { return s.Approve(context.Background(), id) },
			setupMocks: func(r *MockRepository, _ *MockCache) {
				r.On("SetStatusApproved", mock.Anything, id).Return(0, nil).Once()
			},
			expectedError: ErrNotFound,
		},
		{
			name: "decline records reason",
			call: func(s *ArticleService) error { return s.Decline(context.Background(), id, "plagiarism") },
			setupMocks: func(r *MockRepository, c *MockCache) {
				r.On("SetStatusDeclined", mock.Anything, id, "plagiarism").Return(1, nil).Once()
				c.On("Invalidate", "article:"+id).Return(nil).Once()
				c.On("Invalidate", trendingCacheKey).Return(nil).Once()
			},
		},
		{
			name: "premium flag success",
			call: func(s *ArticleService) error { return s.SetPremium(context.Background(), id) },
			setupMocks: func(r *MockRepository, c *MockCache) {
				r.On("SetPremiumFlag", mock.Anything, id).Return(1, nil).Once()
				c.On("Invalidate", "article:"+id).Return(nil).Once()
				c.On("Invalidate", trendingCacheKey).Return(nil).Once()
			},
		},
		{
			name:          "invalid id rejected before repository",
			call:          func(s *ArticleService) error { return s.Approve(context.Background(), "bad") },
			setupMocks:    func(_ *MockRepository, _ *MockCache) {},
			expectedError: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			cache := new(MockCache)
			tt.setupMocks(repo, cache)

			service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
			err := tt.call(service)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestArticleService_RegisterView(t *testing.T) {
	id := uuid.New().String()

	repo := new(MockRepository)
	cache := new(MockCache)
	repo.On("RegisterView", mock.Anything, id).Return(1, nil).Once()
	cache.On("Invalidate", "article:"+id).Return(nil).Once()
	cache.On("Invalidate", trendingCacheKey).Return(nil).Once()

	service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
	require.NoError(t, service.RegisterView(context.Background(), id))
	repo.AssertExpectations(t)

	repo.On("RegisterView", mock.Anything, id).Return(0, nil).Once()
	require.ErrorIs(t, service.RegisterView(context.Background(), id), ErrNotFound)
}

func TestArticleService_Trending(t *testing.T) {
	t.Run("cache miss queries top six", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		top := []*models.Article{{ID: "1", Views: 100}, {ID: "2", Views: 50}}
		cache.On("Get", trendingCacheKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListTrendingArticles", mock.Anything, trendingSize).Return(top, nil).Once()
		cache.On("Set", trendingCacheKey, top, time.Minute).Return(nil).Once()

		service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
		got, err := service.Trending(context.Background())

		require.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", trendingCacheKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListTrendingArticles", mock.Anything, trendingSize).
			Return(nil, errors.New("db down")).Once()

		service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
		_, err := service.Trending(context.Background())
		require.Error(t, err)
	})
}

func TestArticleService_Update(t *testing.T) {
	id := uuid.New().String()
	upd := models.DummyArticleUpdate{Title: "new title"}

	repo := new(MockRepository)
	cache := new(MockCache)
	repo.On("UpdateArticle", mock.Anything, id, upd, "").Return(1, nil).Once()
	cache.On("Invalidate", "article:"+id).Return(nil).Once()
	cache.On("Invalidate", trendingCacheKey).Return(nil).Once()

	service := newService(repo, new(MockUserDirectory), new(MockPublisherDirectory), cache)
	require.NoError(t, service.Update(context.Background(), id, upd))

	repo.On("UpdateArticle", mock.Anything, id, upd, "").Return(0, nil).Once()
	require.ErrorIs(t, service.Update(context.Background(), id, upd), ErrNotFound)
	repo.AssertExpectations(t)
}
